package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/target/clubdesk/internal/data"
	httpx "github.com/target/clubdesk/internal/http"
	"github.com/target/clubdesk/internal/observability/statsd"
	"github.com/target/clubdesk/internal/service"
	"github.com/target/clubdesk/internal/session"
)

// AppDeps contains the connections and auth stack the application is built from.
type AppDeps struct {
	DB      *sql.DB
	Auth    AuthStack
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// App is the assembled client: one session store, the route guard that
// follows it, and the HTTP handler serving the screens.
type App struct {
	Store     *session.Store
	Navigator *httpx.ViewNavigator
	Guard     *session.Guard
	Handler   http.Handler

	auth        AuthStack
	logger      *slog.Logger
	unsubscribe func()
}

// BuildApp wires services and the router over deps. Nothing runs until Start.
func BuildApp(deps AppDeps) (*App, error) {
	if deps.DB == nil {
		return nil, errors.New("app requires a database")
	}
	if deps.Auth.Backend == nil {
		return nil, errors.New("app requires an auth backend")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := session.NewStore(session.StoreOptions{
		Profiles: deps.Auth.Profiles,
		Logger:   logger,
		Metrics:  deps.Metrics,
	})
	nav := httpx.NewViewNavigator(session.SignInRoute, logger)
	guard := session.NewGuard(session.GuardOptions{
		Store:     store,
		Navigator: nav,
		Logger:    logger,
		Metrics:   deps.Metrics,
	})

	handler, err := httpx.NewRouter(httpx.RouterServices{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Backend:  deps.Auth.Backend,
			Sessions: store,
			Logger:   logger,
		}),
		Trainings: service.NewTrainingService(service.TrainingServiceOptions{
			Repo:     data.NewTrainingSessionRepo(deps.DB),
			Sessions: store,
			Logger:   logger,
		}),
		Preregistrations: service.NewPreregistrationService(service.PreregistrationServiceOptions{
			Repo:     data.NewPreregistrationRepo(deps.DB),
			Sessions: store,
			Logger:   logger,
		}),
		Sessions:  store,
		Navigator: nav,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	return &App{
		Store:     store,
		Navigator: nav,
		Guard:     guard,
		Handler:   handler,
		auth:      deps.Auth,
		logger:    logger,
	}, nil
}

// Start connects the store to the backend's auth events, starts the guard and
// replays any persisted session so the first view matches it. On error nothing
// stays subscribed.
func (a *App) Start(ctx context.Context) error {
	a.unsubscribe = a.auth.Backend.Subscribe(a.Store.OnAuthEvent)
	a.Guard.Start()

	if a.auth.Restorer != nil {
		if err := a.auth.Restorer.Restore(ctx); err != nil {
			a.Stop()
			return fmt.Errorf("restore session: %w", err)
		}
	}
	a.Guard.Sync(ctx)

	a.logger.InfoContext(ctx, "session ready",
		"authenticated", a.Store.Read().Authenticated(),
		"view", a.Navigator.Current(),
	)
	return nil
}

// Stop detaches the store and guard. It is safe to call more than once.
func (a *App) Stop() {
	a.Guard.Stop()
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}
