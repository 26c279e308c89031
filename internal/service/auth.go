package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainauth "github.com/target/clubdesk/internal/domain/auth"
	apperrors "github.com/target/clubdesk/internal/errors"
	"github.com/target/clubdesk/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Backend  ports.AuthBackend
	Sessions SessionWriter
	Logger   *slog.Logger
}

// AuthService runs the sign-in, sign-up, password reset and sign-out flows.
//
// Missing input is rejected with a validation error before the backend is
// contacted. Errors reported by the backend are returned as-is so their
// message reaches the user unchanged; nothing is retried.
type AuthService struct {
	backend  ports.AuthBackend
	sessions SessionWriter
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Backend == nil {
		panic("auth service requires a backend")
	}
	if opts.Sessions == nil {
		panic("auth service requires a session store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		backend:  opts.Backend,
		sessions: opts.Sessions,
		logger:   logger.With("component", "auth_service"),
	}
}

// SignIn authenticates with email and password. The session itself is updated by
// the backend's sign-in event.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domainauth.Identity, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.ValidationField("email", "email is required")
	}
	if password == "" {
		return nil, apperrors.ValidationField("password", "password is required")
	}

	id, err := s.backend.SignIn(ctx, email, password)
	if err != nil {
		s.logger.InfoContext(ctx, "sign-in rejected", "error", err)
		return nil, err
	}
	return id, nil
}

// SignUpRequest holds the sign-up form.
type SignUpRequest struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
}

// SignUp registers a new account. A nil identity with a nil error means the
// backend requires email confirmation before the first sign-in.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*domainauth.Identity, error) {
	email := normalizeEmail(req.Email)
	switch {
	case email == "":
		return nil, apperrors.ValidationField("email", "email is required")
	case req.Password == "":
		return nil, apperrors.ValidationField("password", "password is required")
	case req.ConfirmPassword != "" && req.ConfirmPassword != req.Password:
		return nil, apperrors.ValidationField("confirm_password", "passwords do not match")
	}

	id, err := s.backend.SignUp(ctx, ports.SignUpInput{
		Email:    email,
		Password: req.Password,
		FullName: strings.TrimSpace(req.FullName),
	})
	if err != nil {
		s.logger.InfoContext(ctx, "sign-up rejected", "error", err)
		return nil, err
	}
	return id, nil
}

// ResetPassword asks the backend to send a recovery message.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	if err := s.backend.ResetPassword(ctx, email); err != nil {
		s.logger.InfoContext(ctx, "password reset rejected", "error", err)
		return err
	}
	return nil
}

// SignOut ends the backend session and then clears the local session at once,
// so no privileged view stays visible while the sign-out event is in flight.
// The local session is cleared even when the backend call fails.
func (s *AuthService) SignOut(ctx context.Context) error {
	err := s.backend.SignOut(ctx)
	s.sessions.SetOverride(ctx, nil)
	if err != nil {
		s.logger.WarnContext(ctx, "backend sign-out failed; local session cleared", "error", err)
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
