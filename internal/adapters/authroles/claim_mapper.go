// Package authroles resolves role claims carried by auth backend tokens.
package authroles

import (
	"fmt"
	"strings"

	"github.com/jmespath-community/go-jmespath"
	domainauth "github.com/target/clubdesk/internal/domain/auth"
)

// DefaultRoleClaim is where the hosted auth backend places the application role.
const DefaultRoleClaim = "app_metadata.role"

// ClaimRoleMapper extracts the role claim from decoded token claims with a JMESPath expression.
type ClaimRoleMapper struct {
	expr string
}

// NewClaimRoleMapper validates expr and returns a mapper. An empty expr uses DefaultRoleClaim.
func NewClaimRoleMapper(expr string) (*ClaimRoleMapper, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = DefaultRoleClaim
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("compile role claim expression %q: %w", expr, err)
	}
	return &ClaimRoleMapper{expr: expr}, nil
}

// Claim returns the raw role claim, or "" when absent or not a string.
func (m *ClaimRoleMapper) Claim(claims map[string]any) string {
	if m == nil || len(claims) == 0 {
		return ""
	}
	v, err := jmespath.Search(m.expr, claims)
	if err != nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Map resolves claims to a Role. Anything unrecognized is RoleViewer.
func (m *ClaimRoleMapper) Map(claims map[string]any) domainauth.Role {
	role, _ := domainauth.ParseRole(m.Claim(claims))
	return role
}
