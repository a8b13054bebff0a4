// Package store defines the credential store contract consumed by the
// account core. Implementations live under internal/platform and must
// enforce email uniqueness atomically; the core's check-then-create is
// not atomic on its own.
package store
