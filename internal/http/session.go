package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/interview-ai/datasheet-ui/internal/adapters/cookie"
	"github.com/interview-ai/datasheet-ui/internal/api"
	"github.com/interview-ai/datasheet-ui/internal/apiclient"
	"github.com/interview-ai/datasheet-ui/internal/router"
)

// SessionFactory builds the per-request API session: a token store over the
// request cookies, a redirect navigator over the response, and a client and
// service bound to both.
type SessionFactory struct {
	BaseURL      string
	HTTPClient   *http.Client
	CookieDomain string
	Defaults     api.Defaults
	Routes       *router.Table
	Logger       *slog.Logger
}

// RequestScope is the session state of one request.
type RequestScope struct {
	Store *cookie.RequestStore
	Nav   *RedirectNavigator
	API   *api.Service
	Guard *router.Guard
}

// Redirected reports whether the request has already been answered with a redirect.
func (s *RequestScope) Redirected() bool {
	_, ok := s.Nav.Redirected()
	return ok
}

// NewScope wires a RequestScope for w and r.
func (f *SessionFactory) NewScope(w http.ResponseWriter, r *http.Request) (*RequestScope, error) {
	store := cookie.NewRequestStore(w, r, f.CookieDomain)
	nav := NewRedirectNavigator(w, r)

	client, err := apiclient.New(apiclient.Options{
		BaseURL:    f.BaseURL,
		HTTPClient: f.HTTPClient,
		Logger:     f.Logger,
		Store:      store,
		Navigator:  nav,
	})
	if err != nil {
		return nil, err
	}
	svc, err := api.NewService(api.ServiceOptions{
		Client:    client,
		Navigator: nav,
		Defaults:  f.Defaults,
		Logger:    f.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &RequestScope{
		Store: store,
		Nav:   nav,
		API:   svc,
		Guard: router.NewGuard(store, f.Routes),
	}, nil
}

// scopeKey is an unexported context key type to avoid collisions across packages.
type scopeKey struct{}

// SetScopeInContext returns a child context that carries the given scope.
func SetScopeInContext(ctx context.Context, scope *RequestScope) context.Context {
	if scope == nil {
		return ctx
	}
	return context.WithValue(ctx, scopeKey{}, scope)
}

// GetScopeFromContext returns the request scope and whether one is present.
func GetScopeFromContext(ctx context.Context) (*RequestScope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(*RequestScope)
	return scope, ok && scope != nil
}

// WithSession returns a middleware that attaches a RequestScope to every request.
func WithSession(f *SessionFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, err := f.NewScope(w, r)
			if err != nil {
				f.Logger.ErrorContext(r.Context(), "failed to build request session", "error", err)
				WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "session_unavailable", Err: errors.New("session unavailable")})
				return
			}
			next.ServeHTTP(w, r.WithContext(SetScopeInContext(r.Context(), scope)))
		})
	}
}
