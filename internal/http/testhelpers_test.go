package httpx

import (
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	datasheetui "github.com/interview-ai/datasheet-ui"
	"github.com/interview-ai/datasheet-ui/internal/adapters/cookie"
	"github.com/interview-ai/datasheet-ui/internal/api"
	"github.com/interview-ai/datasheet-ui/internal/testutil"
)

func templatesFS(t *testing.T) fs.FS {
	t.Helper()
	sub, err := fs.Sub(datasheetui.TemplateFS, TemplatePathFromRoot)
	require.NoError(t, err)
	return sub
}

type testApp struct {
	handler http.Handler
	backend *testutil.Backend
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	backend := testutil.NewBackend(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	static, err := fs.Sub(datasheetui.StaticFS, "web/static")
	require.NoError(t, err)

	h, err := NewRouter(RouterOptions{
		Sessions: &SessionFactory{
			BaseURL:    backend.URL + "/api",
			HTTPClient: backend.Client(),
			Defaults:   api.StandardDefaults(),
		},
		Templates: templatesFS(t),
		Static:    static,
		Logger:    logger,
	})
	require.NoError(t, err)
	return &testApp{handler: h, backend: backend}
}

const testCSRFToken = "csrf-test-token"

// serve runs req through the router, attaching token as the session cookie when
// non-empty. Unsafe requests also carry a matching CSRF cookie and header.
func (a *testApp) serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if isUnsafeMethod(req.Method) {
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
		req.Header.Set(CSRFHeaderName, testCSRFToken)
	}
	return a.serveRaw(req, token)
}

// serveRaw is serve without the CSRF token.
func (a *testApp) serveRaw(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookie.TokenName, Value: token})
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func tokenCookie(rec *httptest.ResponseRecorder) (*http.Cookie, bool) {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookie.TokenName {
			return c, true
		}
	}
	return nil, false
}
