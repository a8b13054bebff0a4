package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/events"
	"github.com/phrazzld/accounts-api/internal/metrics"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/store"
)

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Cookie string
	Token  SessionToken
	User   *domain.User
}

// Service orchestrates signup, login, logout and session authentication.
type Service struct {
	users      store.UserStore
	hasher     PasswordHasher
	issuer     TokenIssuer
	codec      SessionCodec
	revocation RevocationList
	emitter    events.EventEmitter
	metrics    *metrics.AuthMetrics
	logger     *slog.Logger
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithRevocationList makes Logout and Revoke invalidate outstanding tokens.
func WithRevocationList(r RevocationList) Option {
	return func(s *Service) { s.revocation = r }
}

// WithEventEmitter publishes account events for each successful operation.
func WithEventEmitter(e events.EventEmitter) Option {
	return func(s *Service) { s.emitter = e }
}

// WithMetrics records operation outcomes.
func WithMetrics(m *metrics.AuthMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates an auth Service.
func NewService(
	users store.UserStore,
	hasher PasswordHasher,
	issuer TokenIssuer,
	log *slog.Logger,
	opts ...Option,
) (*Service, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", nil)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", nil)
	}
	if issuer == nil {
		return nil, domain.NewValidationError("issuer", "cannot be nil", nil)
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Service{
		users:  users,
		hasher: hasher,
		issuer: issuer,
		codec:  NewSessionCodec(),
		logger: log.With("component", "auth_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Signup creates a user with a hashed password.
// Fails with duplicate_email if the email is taken, including when a
// concurrent signup wins the race between the existence check and insert.
func (s *Service) Signup(ctx context.Context, creds domain.Credentials) (user *domain.User, err error) {
	defer s.observe("signup", &err)
	log := s.log(ctx).With("operation", "signup")

	if err := creds.Validate(); err != nil {
		return nil, domain.NewError(domain.CodeValidation, err.Error(), err)
	}

	duplicate := fmt.Sprintf("This email %s already exists", creds.Email)

	_, err = s.users.FindByEmail(ctx, creds.Email)
	switch {
	case err == nil:
		log.Debug("signup rejected: email taken")
		return nil, domain.NewError(domain.CodeDuplicateEmail, duplicate, nil)
	case !errors.Is(err, store.ErrUserNotFound):
		logger.Failure(ctx, log, "failed to check email", slog.String("error", err.Error()))
		return nil, store.ToDomainError(err, duplicate)
	}

	hashed, err := s.hash(ctx, creds.Password)
	if err != nil {
		logger.Failure(ctx, log, "failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	user = &domain.User{Email: creds.Email, Password: hashed}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("signup lost race on unique email")
		} else {
			logger.Failure(ctx, log, "failed to create user", slog.String("error", err.Error()))
		}
		return nil, store.ToDomainError(err, duplicate)
	}

	log.Info("user signed up", slog.Int64("user_id", user.ID))
	s.emit(ctx, events.UserSignedUp, user, nil)
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (result *LoginResult, err error) {
	defer s.observe("login", &err)
	log := s.log(ctx).With("operation", "login")

	notFound := fmt.Sprintf("This email %s was not found", creds.Email)

	user, err := s.users.FindByEmail(ctx, creds.Email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.Failure(ctx, log, "failed to look up user", slog.String("error", err.Error()))
		}
		return nil, store.ToDomainError(err, notFound)
	}

	ok, err := s.verify(ctx, creds.Password, user.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debug("login rejected: password mismatch", slog.Int64("user_id", user.ID))
		s.emit(ctx, events.LoginFailed, user, nil)
		return nil, domain.NewError(domain.CodeInvalidCredentials, "Password is not matching", nil)
	}

	token, err := s.issuer.Issue(ctx, Claim{UserID: user.ID})
	if err != nil {
		logger.Failure(ctx, log, "failed to issue session token", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("user logged in", slog.Int64("user_id", user.ID))
	s.emit(ctx, events.UserLoggedIn, user, map[string]string{"token_id": token.TokenID})

	return &LoginResult{
		Cookie: s.codec.Encode(token),
		Token:  token,
		User:   user,
	}, nil
}

// Logout confirms that identity still matches a stored record by email and
// exact password hash and returns that record. If claims is non-nil and a
// revocation list is configured, the session token is revoked as well.
// The caller clears the client cookie with ClearSession.
func (s *Service) Logout(ctx context.Context, identity *domain.User, claims *Claims) (user *domain.User, err error) {
	defer s.observe("logout", &err)
	log := s.log(ctx).With("operation", "logout")

	if identity == nil {
		return nil, domain.NewError(domain.CodeUserNotFound, "User doesn't exist", nil)
	}

	user, err = s.users.FindByEmailAndPasswordHash(ctx, identity.Email, identity.Password)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.Failure(ctx, log, "failed to look up identity", slog.String("error", err.Error()))
		}
		return nil, store.ToDomainError(err, "User doesn't exist")
	}

	if claims != nil {
		if err := s.revoke(ctx, claims); err != nil {
			log.Warn("failed to revoke session token", slog.String("error", err.Error()))
		}
	}

	log.Info("user logged out", slog.Int64("user_id", user.ID))
	s.emit(ctx, events.UserLoggedOut, user, nil)
	return user, nil
}

// ClearSession returns the Set-Cookie value that ends a browser session.
func (s *Service) ClearSession() string {
	return s.codec.Clear()
}

// Authenticate verifies a session token, checks revocation, and loads the
// user it names.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, *domain.User, error) {
	claims, err := s.issuer.Verify(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	if s.revocation != nil {
		revoked, err := s.revocation.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, nil, domain.NewError(domain.CodeStoreUnavailable, "revocation list unavailable", err)
		}
		if revoked {
			return nil, nil, domain.NewError(domain.CodeTokenInvalid, "session token has been revoked", nil)
		}
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, store.ToDomainError(err, "User doesn't exist")
	}
	return claims, user, nil
}

// Revoke invalidates the token described by claims. Without a revocation
// list it is a no-op and the token stays valid until expiry.
func (s *Service) Revoke(ctx context.Context, claims *Claims) (err error) {
	defer s.observe("revoke", &err)
	if claims == nil {
		return domain.NewError(domain.CodeTokenInvalid, "no session to revoke", nil)
	}
	if err := s.revoke(ctx, claims); err != nil {
		return domain.NewError(domain.CodeStoreUnavailable, "revocation list unavailable", err)
	}
	return nil
}

func (s *Service) revoke(ctx context.Context, claims *Claims) error {
	if s.revocation == nil {
		s.log(ctx).Debug("no revocation list configured; token remains valid until expiry",
			slog.String("token_id", claims.TokenID))
		return nil
	}
	if err := s.revocation.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return err
	}
	s.emit(ctx, events.SessionRevoked, &domain.User{ID: claims.UserID}, map[string]string{"token_id": claims.TokenID})
	return nil
}

func (s *Service) hash(ctx context.Context, plaintext string) (string, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveHash("hash", time.Since(start)) }()
	return s.hasher.Hash(ctx, plaintext)
}

func (s *Service) verify(ctx context.Context, plaintext, hashed string) (bool, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveHash("verify", time.Since(start)) }()
	ok, err := s.hasher.Verify(ctx, plaintext, hashed)
	if err != nil {
		return false, domain.NewError(domain.CodeHashFailed, "password verification failed", err)
	}
	return ok, nil
}

func (s *Service) emit(ctx context.Context, t events.Type, user *domain.User, metadata any) {
	if s.emitter == nil {
		return
	}
	event, err := events.NewAccountEvent(t, user.ID, user.Email, metadata)
	if err != nil {
		logger.Failure(ctx, s.log(ctx), "failed to build account event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.log(ctx).Warn("account event handler failed",
			slog.String("event_type", string(t)),
			slog.String("error", err.Error()))
	}
}

func (s *Service) observe(operation string, errp *error) {
	outcome := metrics.OutcomeSuccess
	if *errp != nil {
		outcome = string(domain.CodeOf(*errp))
		if outcome == "" {
			outcome = metrics.OutcomeError
		}
	}
	s.metrics.ObserveOperation(operation, outcome)
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}
