package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeBackend uses the hosted auth backend.
	AuthModeBackend AuthMode = "backend"
	// AuthModeMock uses in-memory accounts (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "backend", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: backend, mock)", v)
	}
}

// BackendConfig contains the hosted auth backend settings.
type BackendConfig struct {
	// BaseURL is the auth API root, e.g. https://project.example.co/auth/v1.
	BaseURL      string `env:"BASE_URL"`
	Issuer       string `env:"ISSUER"`
	ClientID     string `env:"CLIENT_ID"     envDefault:"clubdesk"`
	ClientSecret string `env:"CLIENT_SECRET"`
	// APIKey is the public project key sent with every request.
	APIKey   string `env:"API_KEY"`
	Audience string `env:"AUDIENCE"      envDefault:"authenticated"`
	// JWKSURL defaults to BaseURL + "/.well-known/jwks.json".
	JWKSURL string `env:"JWKS_URL"`
	// RoleClaim is a JMESPath expression selecting the role from access-token claims.
	RoleClaim string `env:"ROLE_CLAIM"    envDefault:"app_metadata.role"`

	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"1m"`
	RefreshLeeway   time.Duration `env:"REFRESH_LEEWAY"   envDefault:"5m"`
	// TokenKey names the persisted session; one key per local app installation.
	TokenKey string `env:"TOKEN_KEY" envDefault:"default"`
}

// DevAuthConfig controls mock authentication.
// Accounts are "email:password:role[:full name]" entries separated by ';'.
type DevAuthConfig struct {
	Accounts []string `env:"ACCOUNTS" envDefault:"admin@example.com:password:admin:Club Admin;coach@example.com:password:coach:Club Coach" envSeparator:";"`
}

// DevAccount is one parsed mock account.
type DevAccount struct {
	Email    string
	Password string
	Role     string
	FullName string
}

// ParsedAccounts parses Accounts, rejecting malformed entries.
func (d DevAuthConfig) ParsedAccounts() ([]DevAccount, error) {
	out := make([]DevAccount, 0, len(d.Accounts))
	for _, raw := range d.Accounts {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.SplitN(raw, ":", 4)
		if len(parts) < 3 {
			return nil, fmt.Errorf("invalid dev account %q (want email:password:role[:name])", raw)
		}
		acct := DevAccount{
			Email:    strings.TrimSpace(parts[0]),
			Password: parts[1],
			Role:     strings.TrimSpace(parts[2]),
		}
		if len(parts) == 4 {
			acct.FullName = strings.TrimSpace(parts[3])
		}
		if acct.Email == "" || acct.Password == "" {
			return nil, fmt.Errorf("invalid dev account %q: email and password are required", raw)
		}
		out = append(out, acct)
	}
	return out, nil
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication backend to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"backend"`

	// Backend configuration (used when Mode=backend).
	Backend BackendConfig `envPrefix:"AUTH_BACKEND_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize trims values and derives defaults.
func (a *AuthConfig) Sanitize() {
	b := &a.Backend
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	b.Issuer = strings.TrimSpace(b.Issuer)
	if b.Issuer == "" {
		b.Issuer = b.BaseURL
	}
	b.JWKSURL = strings.TrimSpace(b.JWKSURL)
	if b.JWKSURL == "" && b.BaseURL != "" {
		b.JWKSURL = b.BaseURL + "/.well-known/jwks.json"
	}
	if strings.TrimSpace(b.RoleClaim) == "" {
		b.RoleClaim = "app_metadata.role"
	}
	if b.RefreshInterval <= 0 {
		b.RefreshInterval = time.Minute
	}
	if b.RefreshLeeway < 0 {
		b.RefreshLeeway = 0
	}
	if strings.TrimSpace(b.TokenKey) == "" {
		b.TokenKey = "default"
	}
}

// Validate checks the settings required by the selected mode.
func (a *AuthConfig) Validate() error {
	switch a.Mode {
	case AuthModeMock:
		_, err := a.DevAuth.ParsedAccounts()
		return err
	case AuthModeBackend:
		if a.Backend.BaseURL == "" {
			return errors.New("AUTH_BACKEND_BASE_URL is required when AUTH_MODE=backend")
		}
		if a.Backend.ClientID == "" {
			return errors.New("AUTH_BACKEND_CLIENT_ID is required when AUTH_MODE=backend")
		}
		return nil
	default:
		return fmt.Errorf("unsupported auth mode %q", a.Mode)
	}
}
