// Package service orchestrates the screens' use cases over the auth backend,
// the session store and the club repositories.
package service

import (
	"context"

	domainauth "github.com/target/clubdesk/internal/domain/auth"
	apperrors "github.com/target/clubdesk/internal/errors"
)

// SessionReader exposes the current session snapshot.
type SessionReader interface {
	Read() domainauth.Session
}

// SessionWriter can replace the session without waiting for a backend event.
type SessionWriter interface {
	SessionReader
	SetOverride(ctx context.Context, identity *domainauth.Identity)
}

// requireRole returns the signed-in session when it grants at least role.
func requireRole(sessions SessionReader, role domainauth.Role) (domainauth.Session, error) {
	current := sessions.Read()
	if !current.Authenticated() {
		return current, apperrors.Unauthorized("sign in required")
	}
	if !current.Role.AtLeast(role) {
		return current, apperrors.Forbidden(role.String() + " role required")
	}
	return current, nil
}
