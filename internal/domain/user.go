package domain

import (
	"strings"
	"time"
)

// MaxPasswordBytes is bcrypt's input limit; longer passwords are rejected
// rather than silently truncated.
const MaxPasswordBytes = 72

// User is a registered account as held by the credential store.
// Password always holds the bcrypt hash, never plaintext.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      *string   `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so stores never hand out shared pointers.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Name != nil {
		name := *u.Name
		c.Name = &name
	}
	return &c
}

// Validate checks that the record is fit for persistence.
func (u *User) Validate() error {
	if u.ID < 0 {
		return NewValidationError("id", "must not be negative", nil)
	}
	if u.Email == "" {
		return NewValidationError("email", "is required", nil)
	}
	if !validateEmailFormat(u.Email) {
		return NewValidationError("email", "has invalid format", nil)
	}
	if u.Password == "" {
		return NewValidationError("password", "hash is required", nil)
	}
	return nil
}

// Credentials is the transient {email, password} payload of signup and login.
// Password is plaintext and must never be persisted as-is.
type Credentials struct {
	Email    string
	Password string
}

// Validate checks the shape of the credentials.
func (c Credentials) Validate() error {
	if c.Email == "" {
		return NewValidationError("email", "is required", nil)
	}
	if !validateEmailFormat(c.Email) {
		return NewValidationError("email", "has invalid format", nil)
	}
	return validatePassword(c.Password)
}

// UserInput carries the fields of a create or update call. On update an
// empty Password keeps the stored hash and a nil Name keeps the stored name.
type UserInput struct {
	Email    string
	Password string
	Name     *string
}

// Validate checks the input; requirePassword is true for creates.
func (in UserInput) Validate(requirePassword bool) error {
	if in.Email == "" {
		return NewValidationError("email", "is required", nil)
	}
	if !validateEmailFormat(in.Email) {
		return NewValidationError("email", "has invalid format", nil)
	}
	if in.Password == "" && !requirePassword {
		return nil
	}
	return validatePassword(in.Password)
}

func validatePassword(password string) error {
	if password == "" {
		return NewValidationError("password", "is required", nil)
	}
	if len(password) > MaxPasswordBytes {
		return NewValidationError("password", "must be at most 72 bytes", nil)
	}
	return nil
}

// validateEmailFormat requires a non-empty local part and a dotted domain.
// Case is preserved; emails are compared exactly as stored.
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	domainPart := email[at+1:]
	dot := strings.IndexByte(domainPart, '.')
	return dot > 0 && dot < len(domainPart)-1
}
