package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/interview-ai/datasheet-ui/internal/router"
)

// RouterOptions holds everything the HTTP router needs.
type RouterOptions struct {
	Sessions  *SessionFactory // Required: builds the per-request API session
	Templates fs.FS           // Required: page templates
	Static    fs.FS           // Optional: served under /static/
	Logger    *slog.Logger    // Optional
}

// NewRouter wires the page routes. Every page is guarded by the route table
// the session factory carries; unknown paths are guarded as protected routes.
func NewRouter(opts RouterOptions) (http.Handler, error) {
	if opts.Sessions == nil {
		return nil, errors.New("session factory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Sessions.Logger == nil {
		opts.Sessions.Logger = logger
	}
	if opts.Sessions.Routes == nil {
		opts.Sessions.Routes = router.DefaultTable()
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: opts.Templates, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("template renderer: %w", err)
	}
	ui := &UIHandlers{T: tr, Logger: logger}

	views := map[router.View]http.HandlerFunc{
		router.ViewLogin:      ui.AuthPage,
		router.ViewChat:       ui.ChatPage,
		router.ViewDatasheets: ui.Datasheets,
	}

	csrf := CSRFProtection(CSRFConfig{CookieDomain: opts.Sessions.CookieDomain, MaxFormBytes: maxUploadBytes})
	session := WithSession(opts.Sessions)
	guarded := func(h http.HandlerFunc) http.Handler {
		return Chain(h, csrf, session, RequireRoute())
	}

	mux := http.NewServeMux()
	for _, route := range opts.Sessions.Routes.Routes() {
		h, ok := views[route.View]
		if !ok {
			return nil, fmt.Errorf("route %s: no handler for view %q", route.Path, route.View)
		}
		pattern := "GET " + route.Path
		if route.Path == router.HomePath {
			pattern = "GET /{$}"
		}
		mux.Handle(pattern, guarded(h))
	}

	mux.Handle("POST /auth/login", Chain(http.HandlerFunc(ui.Login), csrf, session))
	mux.Handle("POST /auth/register", Chain(http.HandlerFunc(ui.Register), csrf, session))
	mux.Handle("POST /auth/logout", Chain(http.HandlerFunc(ui.Logout), csrf, session))
	mux.Handle("POST /query", guarded(ui.Query))
	mux.Handle("POST /datasheets/upload", guarded(ui.Upload))

	health := healthHandler(opts.Sessions, logger)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	if opts.Static != nil {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(opts.Static)))
	}
	mux.Handle("/", guarded(ui.NotFound))

	return Chain(mux, Recover(logger), Logging(logger)), nil
}
