package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/interview-ai/datasheet-ui/config"
	"github.com/interview-ai/datasheet-ui/internal/observability/metrics"
	"github.com/interview-ai/datasheet-ui/internal/observability/statsd"
)

// NewMetricsSink returns the StatsD sink when metrics are enabled, or a nil
// sink otherwise. A dial failure is logged and metrics stay off.
//
//nolint:ireturn // callers depend on the Sink capability only.
func NewMetricsSink(ctx context.Context, cfg config.MetricsConfig, logger *slog.Logger) (statsd.Sink, func() error) {
	noop := func() error { return nil }
	if !cfg.IsEnabled() {
		return nil, noop
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := statsd.NewClient(ctx, statsd.Config{
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to initialise statsd client", "error", err)
		return nil, noop
	}
	return client, client.Close
}

// NewBackendHTTPClient builds the client used for backend calls, instrumented
// when sink is non-nil.
func NewBackendHTTPClient(cfg config.APIConfig, sink statsd.Sink, jar http.CookieJar) *http.Client {
	client := &http.Client{Timeout: cfg.Timeout, Jar: jar}
	return metrics.WrapClient(client, sink, basePath(cfg.ResolvedBaseURL()))
}

func basePath(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return u.Path
}
