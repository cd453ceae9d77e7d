package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMetric struct {
	name  string
	kind  string
	value float64
	tags  map[string]string
}

type recordingSink struct {
	mu      sync.Mutex
	metrics []recordedMetric
}

func (s *recordingSink) Count(name string, value int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, recordedMetric{name: name, kind: "c", value: float64(value), tags: tags})
}

func (s *recordingSink) Timing(name string, value time.Duration, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, recordedMetric{name: name, kind: "ms", value: float64(value), tags: tags})
}

func (s *recordingSink) all() []recordedMetric {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedMetric(nil), s.metrics...)
}

func TestRoute(t *testing.T) {
	tests := []struct {
		prefix, path, want string
	}{
		{"/api", "/api/tables", "/tables"},
		{"/api/", "/api/tables/vendas/data", "/tables/{name}/data"},
		{"", "/tables/clientes%20ativos/data", "/tables/{name}/data"},
		{"/api", "/api/auth/me", "/auth/me"},
		{"/api", "/api", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Route(tt.prefix, tt.path), tt.path)
	}
}

func TestEmitAPIRequest(t *testing.T) {
	sink := &recordingSink{}
	EmitAPIRequest(sink, APIRequest{Method: "GET", Route: "/tables", Status: 401, Duration: time.Millisecond})

	got := sink.all()
	require.Len(t, got, 2)
	assert.Equal(t, "api.request", got[0].name)
	assert.Equal(t, map[string]string{"method": "GET", "route": "/tables", "result": "error", "status": "401"}, got[0].tags)
	assert.Equal(t, "api.duration", got[1].name)

	// nil sink is a no-op
	EmitAPIRequest(nil, APIRequest{Method: "GET"})
}

func TestTransport_RecordsStatusAndErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := &recordingSink{}
	client := WrapClient(srv.Client(), sink, "/api")

	resp, err := client.Get(srv.URL + "/api/tables/vendas/data?page=1")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	got := sink.all()
	require.NotEmpty(t, got)
	assert.Equal(t, "/tables/{name}/data", got[0].tags["route"])
	assert.Equal(t, "200", got[0].tags["status"])
	assert.Equal(t, ResultSuccess, got[0].tags["result"])

	failing := &Transport{
		Base: roundTripFunc(func(*http.Request) (*http.Response, error) { return nil, errors.New("boom") }),
		Sink: sink,
	}
	req := httptest.NewRequest(http.MethodPost, "http://backend/query", nil)
	_, err = failing.RoundTrip(req)
	require.Error(t, err)

	last := sink.all()[len(sink.all())-1]
	assert.Equal(t, ResultError, last.tags["result"])
	assert.Equal(t, "errors_errorstring", last.tags["error_class"])
}

func TestWrapClient_NilSinkUnchanged(t *testing.T) {
	c := &http.Client{}
	assert.Same(t, c, WrapClient(c, nil, ""))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
