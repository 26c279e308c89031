// Package authbackend talks to the hosted auth backend: OAuth2 password sign-in and refresh,
// JWKS-verified access tokens, and the REST endpoints for sign-up, recovery and logout.
package authbackend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/target/clubdesk/internal/adapters/authroles"
	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/ports"
	"golang.org/x/oauth2"
)

// Defaults applied by New.
const (
	DefaultAudience        = "authenticated"
	DefaultTokenKey        = "default"
	DefaultRefreshInterval = time.Minute
	DefaultRefreshLeeway   = 5 * time.Minute
)

// Config holds configuration for the auth backend client.
type Config struct {
	BaseURL      string // auth API root, e.g. https://project.example.co/auth/v1
	Issuer       string // expected iss claim; defaults to BaseURL
	ClientID     string
	ClientSecret string
	APIKey       string // public project key sent as the apikey header
	Audience     string // expected aud claim; defaults to DefaultAudience
	JWKSURL      string // defaults to BaseURL + "/.well-known/jwks.json"

	// KeySet overrides the remote JWKS key set.
	KeySet gooidc.KeySet

	RoleMapper *authroles.ClaimRoleMapper
	Tokens     ports.TokenStore
	TokenKey   string

	RefreshInterval time.Duration
	RefreshLeeway   time.Duration

	HTTPClient *http.Client // Optional, defaults to a client with a 30s timeout
	Logger     *slog.Logger
	Now        func() time.Time
}

// Client implements ports.AuthBackend and ports.SessionRestorer.
type Client struct {
	baseURL    string
	apiKey     string
	oauth      *oauth2.Config
	verifier   *gooidc.IDTokenVerifier
	roles      *authroles.ClaimRoleMapper
	tokens     ports.TokenStore
	tokenKey   string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
	interval   time.Duration
	leeway     time.Duration

	// commitMu orders session changes together with their events.
	commitMu sync.Mutex

	mu        sync.Mutex
	tok       *oauth2.Token
	identity  *domainauth.Identity
	epoch     uint64 // bumped by every committed session change
	listeners map[int]ports.AuthListener
	nextID    int
}

var (
	_ ports.AuthBackend     = (*Client)(nil)
	_ ports.SessionRestorer = (*Client)(nil)
)

// New creates a Client. No network calls are made until the first operation.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("token store is required")
	}
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	roles := cfg.RoleMapper
	if roles == nil {
		var err error
		if roles, err = authroles.NewClaimRoleMapper(""); err != nil {
			return nil, err
		}
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = base
	}
	audience := cfg.Audience
	if audience == "" {
		audience = DefaultAudience
	}
	keySet := cfg.KeySet
	if keySet == nil {
		jwks := cfg.JWKSURL
		if jwks == "" {
			jwks = base + "/.well-known/jwks.json"
		}
		keySet = gooidc.NewRemoteKeySet(gooidc.ClientContext(context.Background(), httpClient), jwks)
	}

	c := &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  base + "/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		verifier:   gooidc.NewVerifier(issuer, keySet, &gooidc.Config{ClientID: audience, Now: now}),
		roles:      roles,
		tokens:     cfg.Tokens,
		tokenKey:   cfg.TokenKey,
		httpClient: httpClient,
		logger:     logger.With("component", "auth_backend"),
		now:        now,
		interval:   cfg.RefreshInterval,
		leeway:     cfg.RefreshLeeway,
		listeners:  make(map[int]ports.AuthListener),
	}
	if c.tokenKey == "" {
		c.tokenKey = DefaultTokenKey
	}
	if c.interval <= 0 {
		c.interval = DefaultRefreshInterval
	}
	if c.leeway <= 0 {
		c.leeway = DefaultRefreshLeeway
	}
	return c, nil
}

// SignIn exchanges credentials for tokens with the password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domainauth.Identity, error) {
	tok, err := c.oauth.PasswordCredentialsToken(c.clientContext(ctx), email, password)
	if err != nil {
		return nil, asBackendError(err)
	}
	id, err := c.verify(ctx, tok)
	if err != nil {
		return nil, err
	}
	c.commit(ctx, nil, domainauth.EventSignedIn, tok, id)
	return id, nil
}

// SignOut revokes the session at the backend, then clears local state.
// Local state is cleared even when the backend call fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	tok := c.tok
	c.mu.Unlock()

	var remoteErr error
	if tok != nil && tok.AccessToken != "" {
		remoteErr = c.postJSON(ctx, "/logout", tok.AccessToken, nil, nil)
	}
	c.commit(ctx, nil, domainauth.EventSignedOut, nil, nil)
	if remoteErr != nil {
		return fmt.Errorf("logout: %w", remoteErr)
	}
	return nil
}

func (c *Client) Subscribe(l ports.AuthListener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Current returns the signed-in identity held by the client, or nil.
func (c *Client) Current() *domainauth.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity.Clone()
}

func (c *Client) verify(ctx context.Context, tok *oauth2.Token) (*domainauth.Identity, error) {
	idTok, err := c.verifier.Verify(c.clientContext(ctx), tok.AccessToken)
	if err != nil {
		// go-oidc flattens key-set fetch failures into the message text.
		if strings.Contains(err.Error(), "fetching keys") {
			return nil, fmt.Errorf("verify access token: %w", err)
		}
		return nil, &invalidTokenError{op: "verify access token", err: err}
	}
	var claims map[string]any
	if err := idTok.Claims(&claims); err != nil {
		return nil, &invalidTokenError{op: "parse access token claims", err: err}
	}
	email, _ := claims["email"].(string)
	return &domainauth.Identity{
		ID:        idTok.Subject,
		Email:     email,
		RoleClaim: c.roles.Claim(claims),
		Claims:    claims,
		ExpiresAt: idTok.Expiry,
	}, nil
}

// commit applies a session change, persists it and notifies listeners as one step, so
// listeners see changes in the order they were applied. A nil tok ends the session.
// With a non-nil expect the change is dropped, and false returned, when another change
// was committed after *expect was read.
//
// Listeners run under commitMu and must not call SignIn, SignOut or RefreshIfDue.
func (c *Client) commit(
	ctx context.Context,
	expect *uint64,
	event domainauth.AuthEvent,
	tok *oauth2.Token,
	id *domainauth.Identity,
) bool {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	c.mu.Lock()
	if expect != nil && c.epoch != *expect {
		c.mu.Unlock()
		return false
	}
	c.epoch++
	c.tok = tok
	c.identity = id.Clone()
	c.mu.Unlock()

	if tok == nil {
		if err := c.tokens.Delete(ctx, c.tokenKey); err != nil {
			c.logger.WarnContext(ctx, "delete persisted tokens failed", "error", err)
		}
	} else {
		stored := ports.StoredToken{
			AccessToken:  tok.AccessToken,
			RefreshToken: tok.RefreshToken,
			TokenType:    tok.TokenType,
			Expiry:       tok.Expiry,
		}
		if err := c.tokens.Save(ctx, c.tokenKey, stored); err != nil {
			// The session still works for this process; only restart restoration is lost.
			c.logger.WarnContext(ctx, "persist tokens failed", "error", err)
		}
	}

	c.emit(ctx, event, id)
	return true
}

// announce notifies listeners without changing the session.
func (c *Client) announce(ctx context.Context, event domainauth.AuthEvent, id *domainauth.Identity) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	c.emit(ctx, event, id)
}

func (c *Client) sessionEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

func (c *Client) emit(ctx context.Context, event domainauth.AuthEvent, id *domainauth.Identity) {
	c.mu.Lock()
	ls := make([]ports.AuthListener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.mu.Unlock()

	for _, l := range ls {
		l(ctx, event, id.Clone())
	}
}

func (c *Client) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}
