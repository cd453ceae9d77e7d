package httpx

import (
	"log/slog"
	"net/http"
)

// UIHandlers serves the server-rendered pages.
type UIHandlers struct {
	T      *TemplateRenderer
	Logger *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// render writes data, falling back to a plain error when the template fails.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, data PageData) {
	data.CSRFToken = CSRFToken(r)
	if err := h.T.Render(w, r, data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// renderFailure renders page with err as its error state, unless the API call
// already answered the request with a redirect (401).
func (h *UIHandlers) renderFailure(w http.ResponseWriter, r *http.Request, scope *RequestScope, data PageData, err error) {
	if scope.Redirected() {
		return
	}
	h.logger().DebugContext(r.Context(), "rendering api failure",
		slog.String("page", data.CurrentPage),
		slog.Any("error", err),
	)
	data.Status = DetermineErrorStatus(err)
	data.Error = ErrorMessage(err)
	h.render(w, r, data)
}

// scope returns the request scope, writing a 500 when the session middleware
// did not run.
func (h *UIHandlers) scope(w http.ResponseWriter, r *http.Request) (*RequestScope, bool) {
	scope, ok := GetScopeFromContext(r.Context())
	if !ok {
		h.logger().ErrorContext(r.Context(), "request session missing", slog.String("path", r.URL.Path))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
	return scope, ok
}

// NotFound renders the error page for unknown paths.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	data := newPageData(PageError)
	data.Status = http.StatusNotFound
	data.Title = "Página não encontrada"
	data.Error = "A página " + r.URL.Path + " não existe."
	h.render(w, r, data)
}
