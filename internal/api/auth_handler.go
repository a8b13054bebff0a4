package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/accounts-api/internal/api/middleware"
	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/service/auth"
)

// AuthService is the subset of auth.Service the handlers use.
type AuthService interface {
	Signup(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	Login(ctx context.Context, creds domain.Credentials) (*auth.LoginResult, error)
	Logout(ctx context.Context, identity *domain.User, claims *auth.Claims) (*domain.User, error)
	ClearSession() string
}

var _ AuthService = (*auth.Service)(nil)

// AuthHandler serves /signup, /login and /logout.
type AuthHandler struct {
	svc AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.svc.Signup(r.Context(), domain.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, NewUserResponse(user), MessageSignup)
}

// Login handles POST /login and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.svc.Login(r.Context(), domain.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.Header().Set("Set-Cookie", res.Cookie)
	shared.RespondWithData(w, r, http.StatusOK, NewUserResponse(res.User), MessageLogin)
}

// Logout handles POST /logout. It must run behind the auth middleware.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r)
	if !ok {
		HandleAPIError(w, r, domain.NewError(domain.CodeTokenInvalid, "Authentication required", nil))
		return
	}

	user, err := h.svc.Logout(r.Context(), session.User, session.Claims)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.Header().Set("Set-Cookie", h.svc.ClearSession())
	shared.RespondWithData(w, r, http.StatusOK, NewUserResponse(user), MessageLogout)
}
