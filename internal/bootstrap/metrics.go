package bootstrap

import (
	"log/slog"

	"github.com/target/clubdesk/config"
	"github.com/target/clubdesk/internal/observability/statsd"
)

// NewMetricsClient returns a StatsD client. A disabled config yields a client that drops everything.
func NewMetricsClient(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	client, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	if logger != nil && cfg.IsEnabled() {
		logger.Info("metrics enabled", "address", cfg.StatsdAddress, "prefix", cfg.Prefix)
	}
	return client, nil
}
