package auth

import (
	"fmt"
	"net/http"

	"github.com/phrazzld/accounts-api/internal/domain"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "Authorization"

// SessionCodec renders session tokens as Set-Cookie values and reads
// them back from Cookie request headers.
type SessionCodec struct {
	name string
}

// NewSessionCodec returns a codec for the Authorization cookie.
func NewSessionCodec() SessionCodec {
	return SessionCodec{name: SessionCookieName}
}

// Encode returns the Set-Cookie value that establishes token as the session.
func (c SessionCodec) Encode(token SessionToken) string {
	return fmt.Sprintf("%s=%s; HttpOnly; Max-Age=%d;", c.cookieName(), token.Token, token.ExpiresIn)
}

// Clear returns the Set-Cookie value that ends the session in the browser.
func (c SessionCodec) Clear() string {
	return c.cookieName() + "=; Max-age=0"
}

// Decode extracts the session token from a Cookie request header.
// A header without the session cookie, or with an empty one, is token_invalid.
func (c SessionCodec) Decode(header string) (string, error) {
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return "", domain.NewError(domain.CodeTokenInvalid, "malformed cookie header", err)
	}
	for _, ck := range cookies {
		if ck.Name == c.cookieName() && ck.Value != "" {
			return ck.Value, nil
		}
	}
	return "", domain.NewError(domain.CodeTokenInvalid, "no session cookie", nil)
}

func (c SessionCodec) cookieName() string {
	if c.name == "" {
		return SessionCookieName
	}
	return c.name
}
