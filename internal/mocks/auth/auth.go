// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthBackend   = (*FakeAuthBackend)(nil)
	_ ports.ProfileReader = (*StaticProfileReader)(nil)
	_ ports.TokenStore    = (*MemoryTokenStore)(nil)
	_ ports.Navigator     = (*RecordingNavigator)(nil)
)

type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

// ErrNotFound is returned by doubles when an entity is not present.
var ErrNotFound error = notFoundError{}

// FakeAuthBackend behaves like a hosted auth backend: successful sign-in and
// sign-out broadcast the matching event to every subscriber.
type FakeAuthBackend struct {
	SignInFunc        func(ctx context.Context, email, password string) (*domainauth.Identity, error)
	SignUpFunc        func(ctx context.Context, in ports.SignUpInput) (*domainauth.Identity, error)
	ResetPasswordFunc func(ctx context.Context, email string) error
	SignOutErr        error

	// Users is consulted when SignInFunc is nil; the key is the email.
	Users map[string]domainauth.Identity

	mu        sync.Mutex
	listeners map[int]ports.AuthListener
	nextID    int
	resets    []string
}

// NewFakeAuthBackend creates a FakeAuthBackend with one default user.
func NewFakeAuthBackend() *FakeAuthBackend {
	return &FakeAuthBackend{
		Users: map[string]domainauth.Identity{
			"coach@example.com": {ID: "user-1", Email: "coach@example.com"},
		},
	}
}

func (f *FakeAuthBackend) SignIn(ctx context.Context, email, password string) (*domainauth.Identity, error) {
	var (
		id  *domainauth.Identity
		err error
	)
	if f.SignInFunc != nil {
		id, err = f.SignInFunc(ctx, email, password)
	} else {
		u, ok := f.Users[email]
		if !ok || password == "" {
			return nil, errors.New("invalid login credentials")
		}
		u.ExpiresAt = time.Now().Add(time.Hour)
		id = &u
	}
	if err != nil {
		return nil, err
	}
	f.Emit(ctx, domainauth.EventSignedIn, id)
	return id, nil
}

func (f *FakeAuthBackend) SignUp(ctx context.Context, in ports.SignUpInput) (*domainauth.Identity, error) {
	if f.SignUpFunc != nil {
		return f.SignUpFunc(ctx, in)
	}
	if _, exists := f.Users[in.Email]; exists {
		return nil, errors.New("user already registered")
	}
	if f.Users == nil {
		f.Users = make(map[string]domainauth.Identity)
	}
	u := domainauth.Identity{ID: "user-" + in.Email, Email: in.Email}
	f.Users[in.Email] = u
	return &u, nil
}

func (f *FakeAuthBackend) ResetPassword(ctx context.Context, email string) error {
	if f.ResetPasswordFunc != nil {
		return f.ResetPasswordFunc(ctx, email)
	}
	f.mu.Lock()
	f.resets = append(f.resets, email)
	f.mu.Unlock()
	return nil
}

func (f *FakeAuthBackend) SignOut(ctx context.Context) error {
	if f.SignOutErr != nil {
		return f.SignOutErr
	}
	f.Emit(ctx, domainauth.EventSignedOut, nil)
	return nil
}

func (f *FakeAuthBackend) Subscribe(l ports.AuthListener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listeners == nil {
		f.listeners = make(map[int]ports.AuthListener)
	}
	id := f.nextID
	f.nextID++
	f.listeners[id] = l
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

// Emit delivers event to every subscriber synchronously.
func (f *FakeAuthBackend) Emit(ctx context.Context, event domainauth.AuthEvent, identity *domainauth.Identity) {
	f.mu.Lock()
	ls := make([]ports.AuthListener, 0, len(f.listeners))
	for _, l := range f.listeners {
		ls = append(ls, l)
	}
	f.mu.Unlock()
	for _, l := range ls {
		l(ctx, event, identity)
	}
}

// Resets returns the emails passed to ResetPassword.
func (f *FakeAuthBackend) Resets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.resets...)
}

// Listeners returns the number of active subscribers.
func (f *FakeAuthBackend) Listeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

// StaticProfileReader serves profiles from a map. Err, when set, is returned for every call.
type StaticProfileReader struct {
	Profiles map[string]domainauth.Profile
	Err      error
}

func (r StaticProfileReader) GetProfile(_ context.Context, userID string) (domainauth.Profile, error) {
	if r.Err != nil {
		return domainauth.Profile{}, r.Err
	}
	p, ok := r.Profiles[userID]
	if !ok {
		return domainauth.Profile{}, ErrNotFound
	}
	return p, nil
}

// MemoryTokenStore is an in-memory token store for unit tests.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]ports.StoredToken
}

// NewMemoryTokenStore creates a new in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]ports.StoredToken)}
}

func (m *MemoryTokenStore) Save(_ context.Context, key string, tok ports.StoredToken) error {
	if key == "" {
		return errors.New("token key cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[key] = tok
	return nil
}

func (m *MemoryTokenStore) Load(_ context.Context, key string) (ports.StoredToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[key]
	if !ok {
		return ports.StoredToken{}, ErrNotFound
	}
	return tok, nil
}

func (m *MemoryTokenStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, key)
	return nil
}

// RecordingNavigator tracks the current route and every Replace call.
type RecordingNavigator struct {
	mu      sync.Mutex
	current ports.Route
	calls   []ports.Route
	Err     error
}

// NewRecordingNavigator starts at route.
func NewRecordingNavigator(route ports.Route) *RecordingNavigator {
	return &RecordingNavigator{current: route}
}

func (n *RecordingNavigator) Current() ports.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *RecordingNavigator) Replace(_ context.Context, route ports.Route) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, route)
	if n.Err != nil {
		return n.Err
	}
	n.current = route
	return nil
}

// Calls returns every route passed to Replace, in order.
func (n *RecordingNavigator) Calls() []ports.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.Route(nil), n.calls...)
}
