// Package events carries account lifecycle events (signup, login, logout,
// revocation, user changes) from the services to interested handlers
// without coupling the services to audit logging or other consumers.
//
// Emission never fails the operation that produced the event; handler
// errors are logged by the emitter and reported to the caller only for
// diagnostics.
package events
