// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service and internal/session.
package ports

import (
	"context"
	"time"

	domainauth "github.com/target/clubdesk/internal/domain/auth"
)

// AuthListener receives authentication-state changes from the backend.
// identity is nil when nobody is signed in.
type AuthListener func(ctx context.Context, event domainauth.AuthEvent, identity *domainauth.Identity)

// SignUpInput groups the fields needed to create an account.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
}

// AuthBackend is the hosted authentication service the application delegates to.
type AuthBackend interface {
	// SignIn authenticates with email and password. On success the backend notifies
	// listeners with EventSignedIn.
	SignIn(ctx context.Context, email, password string) (*domainauth.Identity, error)

	// SignUp registers a new account. Depending on backend policy the account may
	// require confirmation, in which case no identity is returned.
	SignUp(ctx context.Context, in SignUpInput) (*domainauth.Identity, error)

	// ResetPassword asks the backend to send a recovery message to email.
	ResetPassword(ctx context.Context, email string) error

	// SignOut ends the backend session; listeners then receive a nil identity.
	SignOut(ctx context.Context) error

	// Subscribe registers a listener and returns the function that unregisters it.
	Subscribe(l AuthListener) (unsubscribe func())
}

// SessionRestorer is implemented by backends that persist their session and can
// replay it as EventInitialSession on startup.
type SessionRestorer interface {
	Restore(ctx context.Context) error
}

// ProfileReader resolves the profile record keyed by identity id.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (domainauth.Profile, error)
}

// StoredToken is the backend session persisted by the backend client.
type StoredToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
}

// TokenStore persists the backend session between app runs.
type TokenStore interface {
	Save(ctx context.Context, key string, tok StoredToken) error
	Load(ctx context.Context, key string) (StoredToken, error)
	Delete(ctx context.Context, key string) error
}

// Route names a view of the application.
type Route string

// Navigator switches the visible view, replacing history rather than pushing.
type Navigator interface {
	Current() Route
	Replace(ctx context.Context, route Route) error
}
