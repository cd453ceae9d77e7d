package router

// Package router holds the client route table and the navigation guard that
// decides, from the token store alone, whether a route may be entered.

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/interview-ai/datasheet-ui/internal/ports"
)

// Route paths.
const (
	LoginPath      = "/auth"
	HomePath       = "/"
	DatasheetsPath = "/datasheets"
)

// View names a page renderer.
type View string

const (
	ViewLogin      View = "login"
	ViewChat       View = "chat"
	ViewDatasheets View = "datasheets"
)

// Access states whether a route needs a session. The zero value requires one,
// so a route added without thought is protected.
type Access int

const (
	RequiresAuth Access = iota
	Public
)

// Route describes one client route.
type Route struct {
	Path   string
	Name   string
	View   View
	Access Access
}

// RequiresAuth reports whether entering the route needs a token.
func (r Route) RequiresAuth() bool { return r.Access == RequiresAuth }

// Table is an immutable set of routes keyed by path.
type Table struct {
	routes []Route
	byPath map[string]Route
}

// NewTable builds a route table. Later routes with a duplicate path win.
func NewTable(routes ...Route) *Table {
	t := &Table{byPath: make(map[string]Route, len(routes))}
	for _, r := range routes {
		r.Path = Clean(r.Path)
		if _, dup := t.byPath[r.Path]; !dup {
			t.routes = append(t.routes, r)
		} else {
			for i := range t.routes {
				if t.routes[i].Path == r.Path {
					t.routes[i] = r
				}
			}
		}
		t.byPath[r.Path] = r
	}
	return t
}

// DefaultTable returns the application routes: login, chat and datasheets.
func DefaultTable() *Table {
	return NewTable(
		Route{Path: LoginPath, Name: "Auth", View: ViewLogin, Access: Public},
		Route{Path: HomePath, Name: "Chat", View: ViewChat},
		Route{Path: DatasheetsPath, Name: "Datasheets", View: ViewDatasheets},
	)
}

// Routes returns the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Resolve finds the route for target, which may carry a query or fragment.
func (t *Table) Resolve(target string) (Route, bool) {
	r, ok := t.byPath[Clean(target)]
	return r, ok
}

// Clean reduces target to a canonical route path: query and fragment dropped,
// dot segments resolved, no trailing slash except for the root.
func Clean(target string) string {
	p := strings.TrimSpace(target)
	if u, err := url.Parse(p); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return HomePath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Decision is the outcome of a guard check. An empty Redirect means the
// navigation may proceed.
type Decision struct {
	Target   string
	Route    Route
	Found    bool
	Redirect string
}

// Allowed reports whether navigation to Target may proceed.
func (d Decision) Allowed() bool { return d.Redirect == "" }

// Guard runs before every navigation.
type Guard struct {
	store  ports.TokenStore
	routes *Table
}

// NewGuard creates a guard over routes, reading authentication state from store.
// A nil table means DefaultTable.
func NewGuard(store ports.TokenStore, routes *Table) *Guard {
	if routes == nil {
		routes = DefaultTable()
	}
	return &Guard{store: store, routes: routes}
}

// Routes returns the table the guard checks against.
func (g *Guard) Routes() *Table { return g.routes }

// Check decides whether target may be entered. Token presence is read on
// every call. Unknown paths are treated as protected.
func (g *Guard) Check(ctx context.Context, target string) Decision {
	d := Decision{Target: Clean(target)}
	d.Route, d.Found = g.routes.Resolve(d.Target)

	authenticated := false
	if g.store != nil {
		_, authenticated = g.store.Get(ctx)
	}

	requiresAuth := !d.Found || d.Route.RequiresAuth()
	switch {
	case requiresAuth && !authenticated:
		d.Redirect = LoginPath
	case d.Target == LoginPath && authenticated:
		d.Redirect = HomePath
	}
	return d
}

// Navigate checks target and, when the guard redirects, sends nav to the
// redirect. It reports whether navigation to target may proceed.
func (g *Guard) Navigate(ctx context.Context, nav ports.Navigator, target string) (Decision, bool) {
	d := g.Check(ctx, target)
	if !d.Allowed() && nav != nil {
		nav.Navigate(ctx, d.Redirect)
	}
	return d, d.Allowed()
}
