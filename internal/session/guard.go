package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/target/clubdesk/internal/observability/metrics"
	"github.com/target/clubdesk/internal/observability/statsd"
	"github.com/target/clubdesk/internal/ports"
)

// Default views the guard switches between.
const (
	LandingRoute ports.Route = "/trainings"
	SignInRoute  ports.Route = "/signin"
)

// GuardOptions groups dependencies for Guard.
type GuardOptions struct {
	Store     *Store
	Navigator ports.Navigator
	Logger    *slog.Logger
	Metrics   statsd.Sink

	// Landing and SignIn override the default routes when set.
	Landing ports.Route
	SignIn  ports.Route
}

// Guard keeps the visible view consistent with the session.
type Guard struct {
	store   *Store
	nav     ports.Navigator
	logger  *slog.Logger
	metrics statsd.Sink
	landing ports.Route
	signIn  ports.Route

	mu          sync.Mutex
	unsubscribe func()
}

// NewGuard constructs a Guard. Call Start to begin following the store.
func NewGuard(opts GuardOptions) *Guard {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	g := &Guard{
		store:   opts.Store,
		nav:     opts.Navigator,
		logger:  logger.With("component", "route_guard"),
		metrics: opts.Metrics,
		landing: opts.Landing,
		signIn:  opts.SignIn,
	}
	if g.landing == "" {
		g.landing = LandingRoute
	}
	if g.signIn == "" {
		g.signIn = SignInRoute
	}
	return g
}

// Start subscribes to the store. Calling Start twice is a no-op.
func (g *Guard) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unsubscribe != nil {
		return
	}
	g.unsubscribe = g.store.Subscribe(g.onTransition)
}

// Stop unsubscribes from the store.
func (g *Guard) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unsubscribe == nil {
		return
	}
	g.unsubscribe()
	g.unsubscribe = nil
}

// Target returns the view that matches the current session.
func (g *Guard) Target() ports.Route {
	if g.store.Read().Authenticated() {
		return g.landing
	}
	return g.signIn
}

// Sync navigates to the view that matches the current session.
func (g *Guard) Sync(ctx context.Context) {
	g.navigate(ctx, g.Target())
}

func (g *Guard) onTransition(ctx context.Context, tr Transition) {
	if tr.To.Authenticated() {
		g.navigate(ctx, g.landing)
		return
	}
	g.navigate(ctx, g.signIn)
}

func (g *Guard) navigate(ctx context.Context, route ports.Route) {
	if g.nav.Current() == route {
		metrics.EmitNavigation(g.metrics, string(route), metrics.ResultNoop)
		return
	}
	if err := g.nav.Replace(ctx, route); err != nil {
		g.logger.ErrorContext(ctx, "navigation failed", "route", route, "error", err)
		metrics.EmitNavigation(g.metrics, string(route), metrics.ResultError)
		return
	}
	metrics.EmitNavigation(g.metrics, string(route), metrics.ResultSuccess)
}
