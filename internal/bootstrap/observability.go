package bootstrap

import (
	"context"
	"log/slog"

	"github.com/olive/canteen/config"
	"github.com/olive/canteen/internal/observability/statsd"
)

// BuildStatsd creates the metrics sink. A dial failure is logged and yields a
// disabled client so the server still starts.
func BuildStatsd(ctx context.Context, cfg config.MetricsConfig, logger *slog.Logger) *statsd.Client {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled:    cfg.IsEnabled(),
		Address:    cfg.StatsdAddress,
		Prefix:     cfg.Prefix,
		GlobalTags: cfg.Tags,
		Logger:     logger,
	})
	if err != nil {
		logger.WarnContext(ctx, "statsd disabled", "error", err, "address", cfg.StatsdAddress)
		client, _ = statsd.NewClient(statsd.Config{Logger: logger})
		return client
	}
	if client.Enabled() {
		logger.InfoContext(ctx, "statsd metrics enabled", "address", cfg.StatsdAddress, "prefix", cfg.Prefix)
	}
	return client
}
