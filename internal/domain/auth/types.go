// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Role represents the application's privilege tier.
// The zero value is RoleViewer so an unresolved role is always the least privileged one.
type Role uint8

const (
	RoleViewer Role = iota
	RoleCoach
	RoleAdmin
)

var roleNames = [...]string{
	RoleViewer: "viewer",
	RoleCoach:  "coach",
	RoleAdmin:  "admin",
}

// ParseRole maps a persisted role tag onto a Role.
// Unknown or empty values return RoleViewer and false.
func ParseRole(v string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "admin":
		return RoleAdmin, true
	case "coach":
		return RoleCoach, true
	case "viewer":
		return RoleViewer, true
	default:
		return RoleViewer, false
	}
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return roleNames[RoleViewer]
}

// AtLeast reports whether r grants at least the privileges of required.
// Hierarchy: viewer < coach < admin.
func (r Role) AtLeast(required Role) bool {
	if r > RoleAdmin {
		return false
	}
	return r >= required
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	role, ok := ParseRole(string(text))
	if !ok {
		return fmt.Errorf("invalid role: %q (valid options: admin, coach, viewer)", string(text))
	}
	*r = role
	return nil
}

// Identity represents the authenticated principal issued by the auth backend.
// The application treats it as read-only; adapters construct it and callers
// receive copies.
type Identity struct {
	ID    string
	Email string
	// RoleClaim is the role tag carried by the token itself, empty when absent.
	RoleClaim string
	Claims    map[string]any
	ExpiresAt time.Time
}

// Clone returns a copy that does not share the claims map.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	out := *i
	out.Claims = maps.Clone(i.Claims)
	return &out
}

// Session is the in-memory pairing of Identity and Role for the current app run.
// Identity is nil exactly when nobody is signed in.
type Session struct {
	Identity *Identity
	Role     Role
}

// Authenticated reports whether the session carries an identity.
func (s Session) Authenticated() bool { return s.Identity != nil }

// IsAdmin reports whether the session is authenticated with the admin role.
func (s Session) IsAdmin() bool { return s.Authenticated() && s.Role == RoleAdmin }

// UserID returns the identity id or an empty string when signed out.
func (s Session) UserID() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.ID
}

// AuthEvent names the kind of authentication-state change reported by the backend.
type AuthEvent string

const (
	EventInitialSession   AuthEvent = "initial_session"
	EventSignedIn         AuthEvent = "signed_in"
	EventSignedOut        AuthEvent = "signed_out"
	EventTokenRefreshed   AuthEvent = "token_refreshed"
	EventUserUpdated      AuthEvent = "user_updated"
	EventPasswordRecovery AuthEvent = "password_recovery"
	// EventOverride marks transitions caused by Store.SetOverride rather than the backend.
	EventOverride AuthEvent = "override"
)

// Profile is the per-identity record holding the application role.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
