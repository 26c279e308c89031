package httpx

import (
	"context"

	domainauth "github.com/target/clubdesk/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// SetSessionInContext returns a child context carrying the session snapshot
// the request was admitted with.
func SetSessionInContext(ctx context.Context, s domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// GetSessionFromContext returns the admitted session and whether one was set.
func GetSessionFromContext(ctx context.Context) (domainauth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(domainauth.Session)
	return s, ok
}
