package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/clubdesk/config"
	"github.com/target/clubdesk/internal/adapters/authbackend"
	"github.com/target/clubdesk/internal/adapters/authroles"
	"github.com/target/clubdesk/internal/adapters/devauth"
	redisadapter "github.com/target/clubdesk/internal/adapters/redis"
	"github.com/target/clubdesk/internal/data"
	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/ports"
)

// AuthDeps contains what BuildAuth needs for either auth mode.
type AuthDeps struct {
	Auth        config.AuthConfig
	Redis       config.RedisConfig
	RedisClient redis.UniversalClient
	DB          *sql.DB
	Logger      *slog.Logger
}

// AuthStack is the selected auth backend with the collaborators it brings.
type AuthStack struct {
	Backend  ports.AuthBackend
	Profiles ports.ProfileReader
	// Restorer is nil when the backend keeps no session across runs.
	Restorer ports.SessionRestorer
	// Refresh keeps the backend session alive until its context ends; nil when not needed.
	Refresh func(ctx context.Context) error
}

// BuildAuth selects the auth backend for the configured mode.
func BuildAuth(deps AuthDeps) (AuthStack, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch deps.Auth.Mode {
	case config.AuthModeMock:
		return buildDevAuth(deps.Auth.DevAuth, logger)
	case config.AuthModeBackend:
		return buildBackendAuth(deps, logger)
	default:
		return AuthStack{}, fmt.Errorf("unsupported auth mode %q", deps.Auth.Mode)
	}
}

func buildDevAuth(cfg config.DevAuthConfig, logger *slog.Logger) (AuthStack, error) {
	parsed, err := cfg.ParsedAccounts()
	if err != nil {
		return AuthStack{}, err
	}
	accounts := make([]devauth.Account, 0, len(parsed))
	for _, a := range parsed {
		role, ok := domainauth.ParseRole(a.Role)
		if !ok {
			return AuthStack{}, fmt.Errorf("dev account %s: unknown role %q", a.Email, a.Role)
		}
		accounts = append(accounts, devauth.Account{
			Email:    a.Email,
			Password: a.Password,
			FullName: a.FullName,
			Role:     role,
		})
	}

	backend, err := devauth.New(devauth.Config{Accounts: accounts})
	if err != nil {
		return AuthStack{}, fmt.Errorf("create dev auth backend: %w", err)
	}
	logger.Warn("using in-memory dev auth; do not use in production", "accounts", len(accounts))

	return AuthStack{Backend: backend, Profiles: backend, Restorer: backend}, nil
}

func buildBackendAuth(deps AuthDeps, logger *slog.Logger) (AuthStack, error) {
	if deps.RedisClient == nil {
		return AuthStack{}, errors.New("backend auth requires a redis client for token storage")
	}
	if deps.DB == nil {
		return AuthStack{}, errors.New("backend auth requires a database for profiles")
	}

	cfg := deps.Auth.Backend
	roles, err := authroles.NewClaimRoleMapper(cfg.RoleClaim)
	if err != nil {
		return AuthStack{}, fmt.Errorf("role claim: %w", err)
	}

	tokens := redisadapter.NewTokenStore(deps.RedisClient, redisadapter.TokenStoreOptions{
		Prefix: deps.Redis.TokenPrefix,
		TTL:    deps.Redis.TokenTTL,
	})

	client, err := authbackend.New(authbackend.Config{
		BaseURL:         cfg.BaseURL,
		Issuer:          cfg.Issuer,
		ClientID:        cfg.ClientID,
		ClientSecret:    cfg.ClientSecret,
		APIKey:          cfg.APIKey,
		Audience:        cfg.Audience,
		JWKSURL:         cfg.JWKSURL,
		RoleMapper:      roles,
		Tokens:          tokens,
		TokenKey:        cfg.TokenKey,
		RefreshInterval: cfg.RefreshInterval,
		RefreshLeeway:   cfg.RefreshLeeway,
		Logger:          logger,
	})
	if err != nil {
		return AuthStack{}, fmt.Errorf("create auth backend client: %w", err)
	}

	return AuthStack{
		Backend:  client,
		Profiles: data.NewProfileRepo(deps.DB),
		Restorer: client,
		Refresh:  client.Run,
	}, nil
}
