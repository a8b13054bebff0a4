// Package auth implements the authentication core: password hashing,
// session token issuance and verification, the session cookie codec, and
// the signup/login/logout orchestration over a credential store.
//
// Sessions are stateless signed tokens. Logout does not invalidate an
// outstanding token unless a RevocationList is configured; without one a
// token stays valid until its natural expiry.
package auth
