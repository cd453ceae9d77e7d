package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	obserrors "github.com/interview-ai/datasheet-ui/internal/observability/errors"
	"github.com/interview-ai/datasheet-ui/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// APIRequest captures one backend round trip for metric emission.
type APIRequest struct {
	Method   string
	Route    string
	Status   int
	Duration time.Duration
	Err      error
}

// EmitAPIRequest emits standardised backend call metrics.
func EmitAPIRequest(sink statsd.Sink, in APIRequest) {
	if sink == nil {
		return
	}

	result := ResultSuccess
	if in.Err != nil || in.Status >= http.StatusBadRequest {
		result = ResultError
	}

	tags := map[string]string{
		"method": in.Method,
		"route":  in.Route,
		"result": result,
	}
	if in.Status > 0 {
		tags["status"] = strconv.Itoa(in.Status)
	}
	if in.Err != nil {
		tags["error_class"] = obserrors.Classify(in.Err)
	}

	sink.Count("api.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("api.duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Route reduces a backend path to its route template so table names do not
// explode metric cardinality. prefix is the base path of the API, e.g. "/api".
func Route(prefix, path string) string {
	p := strings.TrimPrefix(path, strings.TrimRight(prefix, "/"))
	if p == "" {
		p = "/"
	}
	segs := strings.Split(strings.Trim(p, "/"), "/")
	if len(segs) == 3 && segs[0] == "tables" && segs[2] == "data" {
		return "/tables/{name}/data"
	}
	return p
}

// Transport instruments an http.RoundTripper with EmitAPIRequest.
type Transport struct {
	Base   http.RoundTripper // Optional: defaults to http.DefaultTransport
	Sink   statsd.Sink
	Prefix string // API base path stripped from routes
	now    func() time.Time
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	now := t.now
	if now == nil {
		now = time.Now
	}

	start := now()
	resp, err := base.RoundTrip(req)

	in := APIRequest{
		Method:   req.Method,
		Route:    Route(t.Prefix, req.URL.Path),
		Duration: now().Sub(start),
		Err:      err,
	}
	if resp != nil {
		in.Status = resp.StatusCode
	}
	EmitAPIRequest(t.Sink, in)
	return resp, err
}

// WrapClient returns a copy of client whose transport emits metrics to sink.
// A nil sink returns client unchanged.
func WrapClient(client *http.Client, sink statsd.Sink, prefix string) *http.Client {
	if sink == nil {
		return client
	}
	if client == nil {
		client = &http.Client{}
	}
	wrapped := *client
	wrapped.Transport = &Transport{Base: client.Transport, Sink: sink, Prefix: prefix}
	return &wrapped
}
