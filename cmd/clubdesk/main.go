package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/target/clubdesk/config"
	"github.com/target/clubdesk/internal/bootstrap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger("info")
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.InitLogger(cfg.LogLevel)
	logger.InfoContext(ctx, "starting clubdesk",
		"auth_mode", cfg.Auth.Mode,
		"dev", cfg.IsDev,
		"addr", cfg.HTTP.Addr,
	)

	db, redisClient, err := initInfrastructure(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer closeInfrastructure(ctx, logger, db, redisClient)

	if cfg.Postgres.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	metricsClient, err := bootstrap.NewMetricsClient(cfg.Observability.Metrics, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := metricsClient.Close(); cerr != nil {
			logger.WarnContext(ctx, "close metrics client failed", "error", cerr)
		}
	}()

	authStack, err := bootstrap.BuildAuth(bootstrap.AuthDeps{
		Auth:        cfg.Auth,
		Redis:       cfg.Redis,
		RedisClient: redisClient,
		DB:          db,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	app, err := bootstrap.BuildApp(bootstrap.AppDeps{
		DB:      db,
		Auth:    authStack,
		Metrics: metricsClient,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	if err = app.Start(ctx); err != nil {
		return err
	}
	defer app.Stop()

	server := bootstrap.NewHTTPServer(cfg.HTTP, app.Handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bootstrap.ServeHTTP(gctx, server, cfg.HTTP, logger)
	})
	if authStack.Refresh != nil {
		g.Go(func() error {
			return authStack.Refresh(gctx)
		})
	}
	return g.Wait()
}

// initInfrastructure opens Postgres, and Redis when the auth backend persists tokens there.
func initInfrastructure(
	ctx context.Context,
	cfg *config.AppConfig,
	logger *slog.Logger,
) (*sql.DB, redis.UniversalClient, error) {
	dbCfg := bootstrap.DatabaseConfig{
		DBConfig:    cfg.Postgres,
		RedisConfig: cfg.Redis,
		Logger:      logger,
	}

	db, err := bootstrap.ConnectDB(ctx, dbCfg)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Auth.Mode != config.AuthModeBackend {
		return db, nil, nil
	}

	redisClient, err := bootstrap.ConnectRedis(ctx, dbCfg)
	if err != nil {
		if cerr := db.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close database failed", "error", cerr)
		}
		return nil, nil, err
	}
	return db, redisClient, nil
}

func closeInfrastructure(ctx context.Context, logger *slog.Logger, db *sql.DB, redisClient redis.UniversalClient) {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", err)
		}
	}
	if err := db.Close(); err != nil {
		logger.ErrorContext(ctx, "close database failed", "error", err)
	}
}
