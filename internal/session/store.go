// Package session owns the authenticated session of the running app and keeps
// the visible view consistent with it.
package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/observability/metrics"
	"github.com/target/clubdesk/internal/observability/statsd"
	"github.com/target/clubdesk/internal/ports"
)

// Transition is delivered to subscribers after every committed state change.
type Transition struct {
	Event domainauth.AuthEvent
	From  domainauth.Session
	To    domainauth.Session
}

// Listener observes committed transitions.
type Listener func(ctx context.Context, tr Transition)

// StoreOptions groups dependencies for Store.
type StoreOptions struct {
	Profiles ports.ProfileReader
	Logger   *slog.Logger
	Metrics  statsd.Sink
}

// Store is the single in-memory holder of {Identity, Role}.
//
// Read never blocks. Writers are serialized, and every write takes a new
// generation: a profile lookup commits only if no newer event or override
// started while it was in flight.
type Store struct {
	profiles ports.ProfileReader
	logger   *slog.Logger
	metrics  statsd.Sink

	current atomic.Pointer[domainauth.Session]
	gen     atomic.Uint64

	mu        sync.Mutex // serializes commits and listener delivery
	listeners map[uint64]Listener
	nextID    uint64
}

// NewStore constructs a Store in the Unauthenticated state.
func NewStore(opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		profiles:  opts.Profiles,
		logger:    logger.With("component", "session_store"),
		metrics:   opts.Metrics,
		listeners: make(map[uint64]Listener),
	}
	s.current.Store(&domainauth.Session{})
	return s
}

// Read returns the current snapshot.
func (s *Store) Read() domainauth.Session {
	return *s.current.Load()
}

// OnAuthEvent is the listener registered with the auth backend.
// A non-nil identity resolves its role with one profile read; any failure
// resolves to RoleViewer. A nil identity clears the session.
func (s *Store) OnAuthEvent(ctx context.Context, event domainauth.AuthEvent, identity *domainauth.Identity) {
	gen := s.gen.Add(1)

	if identity == nil {
		s.commit(ctx, gen, event, domainauth.Session{})
		return
	}

	id := identity.Clone()
	role := s.resolveRole(ctx, id)
	s.commit(ctx, gen, event, domainauth.Session{Identity: id, Role: role})
}

// SetOverride replaces the session immediately without waiting for a backend event.
// The role is taken from the identity's own role claim, defaulting to RoleViewer.
func (s *Store) SetOverride(ctx context.Context, identity *domainauth.Identity) {
	gen := s.gen.Add(1)

	next := domainauth.Session{}
	if identity != nil {
		role, _ := domainauth.ParseRole(identity.RoleClaim)
		next = domainauth.Session{Identity: identity.Clone(), Role: role}
	}
	s.commit(ctx, gen, domainauth.EventOverride, next)
}

// Subscribe registers l for future transitions and returns the function that removes it.
// Listeners run synchronously while the store commits and must not write to the Store.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) resolveRole(ctx context.Context, id *domainauth.Identity) domainauth.Role {
	if s.profiles == nil {
		return domainauth.RoleViewer
	}
	profile, err := s.profiles.GetProfile(ctx, id.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "profile resolution failed, using least privilege",
			"user_id", id.ID,
			"error", err,
		)
		metrics.EmitProfileFallback(s.metrics, err)
		return domainauth.RoleViewer
	}
	return profile.Role
}

func (s *Store) commit(ctx context.Context, gen uint64, event domainauth.AuthEvent, next domainauth.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen.Load() != gen {
		s.logger.DebugContext(ctx, "discarding stale session resolution", "event", event, "generation", gen)
		return
	}

	prev := *s.current.Load()
	s.current.Store(&next)

	metrics.EmitAuthTransition(s.metrics, metrics.AuthTransition{
		Event:         string(event),
		Authenticated: next.Authenticated(),
		Role:          next.Role.String(),
	})
	s.logger.InfoContext(ctx, "session updated",
		"event", event,
		"authenticated", next.Authenticated(),
		"user_id", next.UserID(),
		"role", next.Role.String(),
	)

	tr := Transition{Event: event, From: prev, To: next}
	for _, l := range s.listeners {
		l(ctx, tr)
	}
}
