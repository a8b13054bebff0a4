// Package middleware contains the HTTP middleware for tracing, session
// authentication and request metrics.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/service/auth"
)

// SessionAuthenticator resolves a session token to its claims and user.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, *domain.User, error)
}

// Session is the authenticated identity attached to a request.
type Session struct {
	Claims *auth.Claims
	User   *domain.User
}

type sessionKey struct{}

// AuthMiddleware rejects requests without a valid session.
type AuthMiddleware struct {
	authenticator SessionAuthenticator
	codec         auth.SessionCodec
}

// NewAuthMiddleware creates an AuthMiddleware.
func NewAuthMiddleware(a SessionAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: a, codec: auth.NewSessionCodec()}
}

// Authenticate reads the session token from the Authorization cookie, or
// from an "Authorization: Bearer" header, and stores the Session in the
// request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := m.extractToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized,
				string(domain.CodeTokenInvalid), "Authentication required")
			return
		}

		claims, user, err := m.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired):
				shared.RespondWithError(w, r, http.StatusUnauthorized, string(domain.CodeTokenExpired), "Token expired")
			case errors.Is(err, domain.ErrTokenInvalid):
				shared.RespondWithError(w, r, http.StatusUnauthorized, string(domain.CodeTokenInvalid), "Invalid token")
			case errors.Is(err, domain.ErrUserNotFound):
				shared.RespondWithError(w, r, http.StatusUnauthorized, string(domain.CodeUserNotFound), "User doesn't exist")
			case errors.Is(err, domain.ErrStoreUnavailable):
				w.Header().Set("Retry-After", "1")
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
					string(domain.CodeStoreUnavailable), "Service temporarily unavailable", err)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"internal", "Authentication error", err)
			}
			return
		}

		ctx := WithSession(r.Context(), Session{Claims: claims, User: user})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) extractToken(r *http.Request) (string, bool) {
	if cookie := r.Header.Get("Cookie"); cookie != "" {
		if token, err := m.codec.Decode(cookie); err == nil {
			return token, true
		}
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return token, true
	}
	return "", false
}

// WithSession returns ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// GetSession returns the Session stored by Authenticate.
func GetSession(r *http.Request) (Session, bool) {
	s, ok := r.Context().Value(sessionKey{}).(Session)
	return s, ok && s.User != nil
}
