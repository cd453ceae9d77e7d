package httpx

import (
	"context"
	"net/http"
	"sync"

	"github.com/interview-ai/datasheet-ui/internal/ports"
)

var _ ports.Navigator = (*RedirectNavigator)(nil)

// RedirectNavigator turns navigation into an HTTP redirect on the current
// response. Only the first navigation is written; handlers check Redirected
// and stop writing once it reports true.
type RedirectNavigator struct {
	w http.ResponseWriter
	r *http.Request

	mu     sync.Mutex
	target string
}

// NewRedirectNavigator binds a navigator to one request/response pair.
func NewRedirectNavigator(w http.ResponseWriter, r *http.Request) *RedirectNavigator {
	return &RedirectNavigator{w: w, r: r}
}

// Navigate redirects to path: 303 for plain requests, Hx-Redirect for htmx.
func (n *RedirectNavigator) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.target != "" {
		return
	}
	n.target = path

	if IsHTMX(n.r) {
		SetHXRedirect(n.w, path)
		n.w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(n.w, n.r, path, http.StatusSeeOther)
}

// Redirected returns the redirect target, if a navigation was written.
func (n *RedirectNavigator) Redirected() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target, n.target != ""
}
