// Package memory provides process-local implementations of the credential
// store and the session revocation list. They back the "memory" database
// driver and serve as fast fakes in service tests.
package memory
