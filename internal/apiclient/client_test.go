package apiclient

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/interview-ai/datasheet-ui/internal/mocks"
	"github.com/interview-ai/datasheet-ui/internal/mocks/session"
	"github.com/interview-ai/datasheet-ui/internal/testutil"
)

func newTestClient(t *testing.T, baseURL string, store *session.MemoryStore, nav *session.RecordingNavigator) (*Client, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	c, err := New(Options{
		BaseURL:   baseURL,
		Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
		Store:     store,
		Navigator: nav,
	})
	require.NoError(t, err)
	return c, &logs
}

func TestClient_AttachesBearerToken(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.JSON(http.MethodGet, "/tables", http.StatusOK, map[string]any{"tables": []string{}, "count": 0})

	c, _ := newTestClient(t, backend.URL, session.NewMemoryStore("abc"), &session.RecordingNavigator{})

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/tables"})
	require.NoError(t, err)

	req := backend.LastRequest()
	assert.Equal(t, "/tables", req.Path)
	assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.NotEmpty(t, req.Header.Get(RequestIDHeader))
}

func TestClient_NoTokenNoAuthorizationHeader(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.JSON(http.MethodGet, "/tables", http.StatusOK, map[string]any{"tables": []string{}, "count": 0})

	c, _ := newTestClient(t, backend.URL, session.NewMemoryStore(""), &session.RecordingNavigator{})

	_, err := c.Do(context.Background(), Request{Path: "/tables"})
	require.NoError(t, err)

	_, present := backend.LastRequest().Header["Authorization"]
	assert.False(t, present)
}

func TestClient_TokenReadAtSendTime(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.JSON(http.MethodGet, "/tables", http.StatusOK, map[string]any{})

	store := session.NewMemoryStore("")
	c, _ := newTestClient(t, backend.URL, store, &session.RecordingNavigator{})
	ctx := context.Background()

	_, err := c.Do(ctx, Request{Path: "/tables"})
	require.NoError(t, err)
	assert.Empty(t, backend.LastRequest().Header.Get("Authorization"))

	require.NoError(t, store.Set(ctx, "later"))
	_, err = c.Do(ctx, Request{Path: "/tables"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer later", backend.LastRequest().Header.Get("Authorization"))
}

func TestClient_KeepsCallerRequestID(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.JSON(http.MethodGet, "/health", http.StatusOK, map[string]any{"status": "healthy"})

	c, _ := newTestClient(t, backend.URL, session.NewMemoryStore(""), &session.RecordingNavigator{})

	_, err := c.Do(context.Background(), Request{
		Path:   "/health",
		Header: http.Header{RequestIDHeader: []string{"req-1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "req-1", backend.LastRequest().Header.Get(RequestIDHeader))
}

func TestClient_UnauthorizedClearsTokenAndNavigatesOnce(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.JSON(http.MethodGet, "/auth/me", http.StatusUnauthorized, map[string]any{"detail": "Token inválido"})

	store := session.NewMemoryStore("expired")
	nav := &session.RecordingNavigator{}
	c, logs := newTestClient(t, backend.URL, store, nav)

	resp, err := c.Do(context.Background(), Request{Path: "/auth/me"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, ok := store.Get(context.Background())
	assert.False(t, ok)
	assert.Equal(t, 1, store.Clears())
	assert.Equal(t, []string{"/auth"}, nav.Paths())
	assert.Contains(t, logs.String(), "API Error")
	assert.Contains(t, logs.String(), "Token inválido")

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Token inválido", httpErr.Detail())
}

func TestClient_ServerErrorPropagatesWithoutReset(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.JSON(http.MethodPost, "/query", http.StatusInternalServerError, map[string]any{"detail": "boom"})

	store := session.NewMemoryStore("abc")
	nav := &session.RecordingNavigator{}
	c, logs := newTestClient(t, backend.URL, store, nav)

	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/query"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.False(t, IsUnauthorized(err))

	token, ok := store.Get(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
	assert.Empty(t, nav.Paths())
	assert.Contains(t, logs.String(), "boom")
}

func TestClient_TransportErrorIsLoggedAndReturned(t *testing.T) {
	backend := testutil.NewBackend(t)
	baseURL := backend.URL
	backend.Close()

	nav := &session.RecordingNavigator{}
	c, logs := newTestClient(t, baseURL, session.NewMemoryStore("abc"), nav)

	_, err := c.Do(context.Background(), Request{Path: "/tables"})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, 0, StatusCode(err))
	assert.Empty(t, nav.Paths())
	assert.Contains(t, logs.String(), "API Error")
}

func TestClient_RequestInterceptorErrorAbortsSend(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.JSON(http.MethodGet, "/tables", http.StatusOK, map[string]any{})

	c, logs := newTestClient(t, backend.URL, session.NewMemoryStore(""), &session.RecordingNavigator{})
	sentinel := errors.New("signing unavailable")
	c.UseRequest(func(*http.Request) error { return sentinel })

	_, err := c.Do(context.Background(), Request{Path: "/tables"})
	require.ErrorIs(t, err, sentinel)
	assert.Empty(t, backend.Requests())
	assert.Contains(t, logs.String(), "signing unavailable")
}

func TestClient_ResponseInterceptorsSeeSuccess(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.JSON(http.MethodGet, "/tables", http.StatusOK, map[string]any{"count": 2})

	c, _ := newTestClient(t, backend.URL, session.NewMemoryStore(""), &session.RecordingNavigator{})
	var seen []int
	c.UseResponse(func(_ context.Context, resp *Response, err error) (*Response, error) {
		seen = append(seen, resp.StatusCode)
		return resp, err
	})

	var out struct {
		Count int `json:"count"`
	}
	require.NoError(t, c.DoJSON(context.Background(), Request{Path: "/tables"}, &out))
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, []int{http.StatusOK}, seen)
}

func TestClient_JSONBodyAndQuery(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.JSON(http.MethodPost, "/auth/login", http.StatusOK, map[string]any{"success": true})

	c, _ := newTestClient(t, backend.URL, session.NewMemoryStore(""), &session.RecordingNavigator{})

	_, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "auth/login",
		Query:  map[string][]string{"next": {"/"}},
		JSON:   map[string]string{"username": "ana", "password": "secret1"},
	})
	require.NoError(t, err)

	req := backend.LastRequest()
	assert.Equal(t, "/auth/login", req.Path)
	assert.Equal(t, "/", req.Query.Get("next"))
	assert.JSONEq(t, `{"username":"ana","password":"secret1"}`, string(req.Body))
}

func TestClient_WithGomockPorts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockTokenStore(ctrl)
	nav := mocks.NewMockNavigator(ctrl)

	backend := testutil.NewBackend(t)
	backend.JSON(http.MethodGet, "/auth/me", http.StatusUnauthorized, map[string]any{"detail": "expired"})

	gomock.InOrder(
		store.EXPECT().Get(gomock.Any()).Return("abc", true),
		store.EXPECT().Clear(gomock.Any()).Times(1),
		nav.EXPECT().Navigate(gomock.Any(), "/auth").Times(1),
	)

	c, err := New(Options{
		BaseURL:   backend.URL,
		Logger:    slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		Store:     store,
		Navigator: nav,
	})
	require.NoError(t, err)

	_, err = c.Do(context.Background(), Request{Path: "/auth/me"})
	require.Error(t, err)
	assert.Equal(t, "Bearer abc", backend.LastRequest().Header.Get("Authorization"))
}

func TestNew_RejectsRelativeBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "/api"})
	require.Error(t, err)
}

func TestHTTPError_Detail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "fastapi detail", body: `{"detail":"Formato de arquivo inválido"}`, want: "Formato de arquivo inválido"},
		{name: "error field", body: `{"success":false,"error":"Username já está em uso"}`, want: "Username já está em uso"},
		{name: "validation list", body: `{"detail":[{"msg":"field required"}]}`, want: "[map[msg:field required]]"},
		{name: "plain text", body: "bad gateway\n", want: "bad gateway"},
		{name: "empty", body: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &HTTPError{Method: http.MethodGet, Path: "/x", StatusCode: 400, Body: []byte(tt.body)}
			assert.Equal(t, tt.want, err.Detail())
		})
	}
}
