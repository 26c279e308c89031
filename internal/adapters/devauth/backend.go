// Package devauth provides an in-memory auth backend for local development and tests.
package devauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

// Errors mirror the messages the hosted backend returns so the UI shows the same text.
var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrUserExists         = errors.New("user already registered")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrProfileNotFound    = errors.New("profile not found")
)

const minPasswordLen = 6

// Account seeds one user.
type Account struct {
	Email    string
	Password string
	FullName string
	Role     domainauth.Role
}

// Config controls the dev backend.
type Config struct {
	Accounts        []Account
	SessionDuration time.Duration // default 8h when zero
	// BcryptCost defaults to bcrypt.MinCost; production hashing is the hosted backend's job.
	BcryptCost int
}

type user struct {
	id        string
	email     string
	fullName  string
	hash      []byte
	role      domainauth.Role
	createdAt time.Time
}

// Backend implements ports.AuthBackend, ports.SessionRestorer and ports.ProfileReader in memory.
// Events are delivered synchronously on the caller's goroutine.
type Backend struct {
	dur  time.Duration
	cost int

	mu        sync.Mutex
	byEmail   map[string]*user
	byID      map[string]*user
	current   *domainauth.Identity
	listeners map[int]ports.AuthListener
	nextID    int
	resets    []string
}

var (
	_ ports.AuthBackend     = (*Backend)(nil)
	_ ports.SessionRestorer = (*Backend)(nil)
	_ ports.ProfileReader   = (*Backend)(nil)
)

// New constructs a Backend and seeds cfg.Accounts.
func New(cfg Config) (*Backend, error) {
	b := &Backend{
		dur:       cfg.SessionDuration,
		cost:      cfg.BcryptCost,
		byEmail:   make(map[string]*user),
		byID:      make(map[string]*user),
		listeners: make(map[int]ports.AuthListener),
	}
	if b.dur == 0 {
		b.dur = 8 * time.Hour
	}
	if b.cost == 0 {
		b.cost = bcrypt.MinCost
	}
	for _, a := range cfg.Accounts {
		if _, err := b.addUser(a.Email, a.Password, a.FullName, a.Role); err != nil {
			return nil, fmt.Errorf("dev auth: seed %s: %w", a.Email, err)
		}
	}
	return b, nil
}

func (b *Backend) SignIn(ctx context.Context, email, password string) (*domainauth.Identity, error) {
	b.mu.Lock()
	u, ok := b.byEmail[normalizeEmail(email)]
	b.mu.Unlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	id := b.identityFor(u)
	b.mu.Lock()
	b.current = id.Clone()
	b.mu.Unlock()

	b.emit(ctx, domainauth.EventSignedIn, id)
	return id, nil
}

func (b *Backend) SignUp(_ context.Context, in ports.SignUpInput) (*domainauth.Identity, error) {
	u, err := b.addUser(in.Email, in.Password, in.FullName, domainauth.RoleViewer)
	if err != nil {
		return nil, err
	}
	return b.identityFor(u), nil
}

// ResetPassword records the request. Unknown emails succeed silently so callers cannot enumerate accounts.
func (b *Backend) ResetPassword(_ context.Context, email string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.byEmail[normalizeEmail(email)]; ok {
		b.resets = append(b.resets, normalizeEmail(email))
	}
	return nil
}

func (b *Backend) SignOut(ctx context.Context) error {
	b.mu.Lock()
	b.current = nil
	b.mu.Unlock()

	b.emit(ctx, domainauth.EventSignedOut, nil)
	return nil
}

func (b *Backend) Subscribe(l ports.AuthListener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Restore emits the initial session: the signed-in identity, or nil.
func (b *Backend) Restore(ctx context.Context) error {
	b.mu.Lock()
	id := b.current.Clone()
	b.mu.Unlock()

	b.emit(ctx, domainauth.EventInitialSession, id)
	return nil
}

// GetProfile serves the seeded role so the app can run without a database.
func (b *Backend) GetProfile(_ context.Context, userID string) (domainauth.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.byID[userID]
	if !ok {
		return domainauth.Profile{}, ErrProfileNotFound
	}
	return domainauth.Profile{
		ID:        u.id,
		Email:     u.email,
		FullName:  u.fullName,
		Role:      u.role,
		CreatedAt: u.createdAt,
	}, nil
}

// PasswordResets returns the emails that requested a reset.
func (b *Backend) PasswordResets() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.resets...)
}

func (b *Backend) addUser(email, password, fullName string, role domainauth.Role) (*user, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.byEmail[email]; exists {
		return nil, ErrUserExists
	}
	u := &user{
		id:        uuid.NewString(),
		email:     email,
		fullName:  strings.TrimSpace(fullName),
		hash:      hash,
		role:      role,
		createdAt: time.Now().UTC(),
	}
	b.byEmail[email] = u
	b.byID[u.id] = u
	return u, nil
}

func (b *Backend) identityFor(u *user) *domainauth.Identity {
	return &domainauth.Identity{
		ID:        u.id,
		Email:     u.email,
		RoleClaim: u.role.String(),
		Claims: map[string]any{
			"sub":   u.id,
			"email": u.email,
		},
		ExpiresAt: time.Now().Add(b.dur),
	}
}

func (b *Backend) emit(ctx context.Context, event domainauth.AuthEvent, id *domainauth.Identity) {
	b.mu.Lock()
	ls := make([]ports.AuthListener, 0, len(b.listeners))
	for _, l := range b.listeners {
		ls = append(ls, l)
	}
	b.mu.Unlock()

	for _, l := range ls {
		l(ctx, event, id.Clone())
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
