package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		user      User
		wantField string
	}{
		{"valid", User{ID: 1, Email: "a@x.com", Password: "$2a$10$hash"}, ""},
		{"zero id allowed before create", User{Email: "a@x.com", Password: "$2a$10$hash"}, ""},
		{"negative id", User{ID: -1, Email: "a@x.com", Password: "h"}, "id"},
		{"missing email", User{Password: "h"}, "email"},
		{"bad email", User{Email: "nope", Password: "h"}, "email"},
		{"missing hash", User{Email: "a@x.com"}, "password"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.user.Validate()
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.wantField, vErr.Field)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCredentialsValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Credentials{Email: "a@x.com", Password: "p1"}.Validate())
	assert.Error(t, Credentials{Email: "", Password: "p1"}.Validate())
	assert.Error(t, Credentials{Email: "a@x", Password: "p1"}.Validate())
	assert.Error(t, Credentials{Email: "a@x.com", Password: ""}.Validate())
	assert.Error(t, Credentials{Email: "a@x.com", Password: strings.Repeat("p", 73)}.Validate())
}

func TestUserInputValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, UserInput{Email: "a@x.com"}.Validate(false), "update may omit password")
	assert.Error(t, UserInput{Email: "a@x.com"}.Validate(true), "create requires password")
	assert.NoError(t, UserInput{Email: "a@x.com", Password: "p"}.Validate(true))
}

func TestEmailFormatPreservesCase(t *testing.T) {
	t.Parallel()

	assert.True(t, validateEmailFormat("Alice@Example.COM"))
	assert.False(t, validateEmailFormat("@x.com"))
	assert.False(t, validateEmailFormat("a@.com"))
	assert.False(t, validateEmailFormat("a@x."))
	assert.False(t, validateEmailFormat("a b@x.com"))
}

func TestUserClone(t *testing.T) {
	t.Parallel()

	name := "Ada"
	u := &User{ID: 1, Email: "a@x.com", Password: "h", Name: &name}
	c := u.Clone()
	*c.Name = "Grace"
	c.Email = "b@x.com"

	assert.Equal(t, "Ada", *u.Name)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Nil(t, (*User)(nil).Clone())
}

func TestErrorMatchesByCode(t *testing.T) {
	t.Parallel()

	err := NewError(CodeUserNotFound, "This email a@x.com was not found", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, CodeUserNotFound, CodeOf(err))

	cause := errors.New("dial tcp: refused")
	wrapped := NewError(CodeStoreUnavailable, "lookup failed", cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, IsRetryable(wrapped))
	assert.False(t, IsRetryable(ErrInvalidCredentials))
	assert.Equal(t, Code(""), CodeOf(cause))
}
