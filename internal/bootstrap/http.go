package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	datasheetui "github.com/interview-ai/datasheet-ui"
	"github.com/interview-ai/datasheet-ui/config"
	httpx "github.com/interview-ai/datasheet-ui/internal/http"
	"github.com/interview-ai/datasheet-ui/internal/observability/statsd"
)

const shutdownTimeout = 10 * time.Second

// HTTPServerConfig contains configuration for the web frontend server.
type HTTPServerConfig struct {
	Config     *config.AppConfig
	HTTPClient *http.Client // Optional: client used for backend calls
	Metrics    statsd.Sink  // Optional: backend call metrics
	Logger     *slog.Logger
}

// TemplateFS returns the page templates: from disk when running in dev mode
// with HTTP_TEMPLATE_DIR set, from the embedded copy otherwise.
func TemplateFS(cfg config.AppConfig) (fs.FS, error) {
	if cfg.IsDev && cfg.HTTP.TemplateDir != "" {
		return os.DirFS(cfg.HTTP.TemplateDir), nil
	}
	return fs.Sub(datasheetui.TemplateFS, httpx.TemplatePathFromRoot)
}

// BuildHTTPHandler wires the router with sessions bound to the configured backend.
func BuildHTTPHandler(cfg *HTTPServerConfig) (http.Handler, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	templates, err := TemplateFS(*appCfg)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	static, err := fs.Sub(datasheetui.StaticFS, "web/static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = NewBackendHTTPClient(appCfg.API, cfg.Metrics, nil)
	}

	return httpx.NewRouter(httpx.RouterOptions{
		Sessions: &httpx.SessionFactory{
			BaseURL:      appCfg.API.ResolvedBaseURL(),
			HTTPClient:   httpClient,
			CookieDomain: appCfg.HTTP.CookieDomain,
			Defaults:     APIDefaults(appCfg.API),
			Logger:       logger,
		},
		Templates: templates,
		Static:    static,
		Logger:    logger,
	})
}

// RunHTTPServer serves the web frontend until ctx is cancelled or the
// listener fails, then shuts the server down gracefully.
func RunHTTPServer(ctx context.Context, cfg *HTTPServerConfig) error {
	handler, err := BuildHTTPHandler(cfg)
	if err != nil {
		return err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ln, err := net.Listen("tcp", cfg.Config.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Config.HTTP.Addr, err)
	}
	return Serve(ctx, ln, newServer(handler), logger)
}

func newServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Serve runs server on ln until ctx is done.
func Serve(ctx context.Context, ln net.Listener, server *http.Server, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.InfoContext(gctx, "starting HTTP server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return ShutdownHTTPServer(server, logger)
	})

	return g.Wait()
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if logger != nil {
		logger.Info("HTTP server stopped")
	}
	return nil
}
