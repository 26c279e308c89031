// Package redis provides Redis-based adapters for clubdesk.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/clubdesk/internal/ports"
)

// DefaultTokenTTL bounds how long a persisted backend session survives without a refresh.
const DefaultTokenTTL = 30 * 24 * time.Hour

// TokenStore persists the auth backend's tokens so a restart can restore the session.
// Keys expire after the configured TTL; every Save resets the clock.
type TokenStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// TokenStoreOptions configures a TokenStore.
type TokenStoreOptions struct {
	Prefix string
	TTL    time.Duration
}

// NewTokenStore creates a Redis-backed token store.
func NewTokenStore(client redis.UniversalClient, opts TokenStoreOptions) *TokenStore {
	s := &TokenStore{client: client, prefix: opts.Prefix, ttl: opts.TTL}
	if s.prefix == "" {
		s.prefix = "clubdesk:token:"
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTokenTTL
	}
	return s
}

var _ ports.TokenStore = (*TokenStore)(nil)

func (s *TokenStore) Save(ctx context.Context, key string, tok ports.StoredToken) error {
	if key == "" {
		return errors.New("token key cannot be empty")
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return errors.New("token is empty")
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	return s.client.Set(ctx, s.prefix+key, data, s.ttl).Err()
}

func (s *TokenStore) Load(ctx context.Context, key string) (ports.StoredToken, error) {
	if key == "" {
		return ports.StoredToken{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.StoredToken{}, ErrNotFound
		}
		return ports.StoredToken{}, fmt.Errorf("redis get: %w", err)
	}

	var tok ports.StoredToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return ports.StoredToken{}, fmt.Errorf("unmarshal token: %w", err)
	}
	return tok, nil
}

func (s *TokenStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+key).Err()
}

type notFoundError struct{}

func (notFoundError) Error() string { return "token not found" }

// ErrNotFound is returned when no token is stored under a key.
var ErrNotFound error = notFoundError{}
