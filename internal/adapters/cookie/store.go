package cookie

// Package cookie provides cookie-backed token stores: a document.cookie style
// jar for in-process use and a per-request store for the web frontend.

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/interview-ai/datasheet-ui/internal/ports"
)

// TokenName is the cookie key that carries the session token.
const TokenName = "token"

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenStore  = (*JarStore)(nil)
	_ ports.TokenSetter = (*JarStore)(nil)
	_ ports.TokenStore  = (*RequestStore)(nil)
	_ ports.TokenSetter = (*RequestStore)(nil)
)

// ParseToken extracts the token from a "name=value; name=value" cookie string.
// The token is present only when exactly one "token=" pair exists and its value
// is non-empty.
func ParseToken(cookies string) (string, bool) {
	parts := strings.Split("; "+cookies, "; "+TokenName+"=")
	if len(parts) != 2 {
		return "", false
	}
	value, _, _ := strings.Cut(parts[1], ";")
	if value == "" {
		return "", false
	}
	return value, true
}

type pair struct {
	name  string
	value string
}

// JarStore keeps cookies as an ordered list of pairs, mirroring a browser's
// document.cookie for a single path.
type JarStore struct {
	mu    sync.RWMutex
	pairs []pair
}

// NewJarStore creates a jar seeded from a cookie string (may be empty).
func NewJarStore(cookies string) *JarStore {
	j := &JarStore{}
	for _, raw := range strings.Split(cookies, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(raw), "=")
		if !ok || name == "" {
			continue
		}
		j.pairs = append(j.pairs, pair{name: name, value: value})
	}
	return j
}

// String renders the jar in document.cookie form.
func (j *JarStore) String() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	parts := make([]string, 0, len(j.pairs))
	for _, p := range j.pairs {
		parts = append(parts, p.name+"="+p.value)
	}
	return strings.Join(parts, "; ")
}

// Get returns the token parsed out of the jar.
func (j *JarStore) Get(_ context.Context) (string, bool) {
	return ParseToken(j.String())
}

// Set stores the token, replacing any previous value.
func (j *JarStore) Set(_ context.Context, token string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.pairs {
		if j.pairs[i].name == TokenName {
			j.pairs[i].value = token
			return nil
		}
	}
	j.pairs = append(j.pairs, pair{name: TokenName, value: token})
	return nil
}

// Clear drops the token, as setting it empty with max-age=0 does in a browser.
func (j *JarStore) Clear(_ context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	kept := j.pairs[:0]
	for _, p := range j.pairs {
		if p.name != TokenName {
			kept = append(kept, p)
		}
	}
	j.pairs = kept
}

// RequestStore reads the token from an inbound request and writes changes back
// as Set-Cookie headers on the response. It lives for a single request.
type RequestStore struct {
	w      http.ResponseWriter
	r      *http.Request
	domain string
	secure bool

	mu       sync.Mutex
	override *string
}

// NewRequestStore binds a store to one request/response pair.
func NewRequestStore(w http.ResponseWriter, r *http.Request, domain string) *RequestStore {
	return &RequestStore{
		w:      w,
		r:      r,
		domain: domain,
		secure: r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https"),
	}
}

// Get returns the token written during this request, else the inbound cookie.
func (s *RequestStore) Get(_ context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.override != nil {
		return *s.override, *s.override != ""
	}
	return ParseToken(strings.Join(s.r.Header.Values("Cookie"), "; "))
}

// Set writes the token cookie.
func (s *RequestStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = &token
	http.SetCookie(s.w, &http.Cookie{
		Name:     TokenName,
		Value:    token,
		Path:     "/",
		Domain:   s.domain,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the token cookie. Only the first call writes a header.
func (s *RequestStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.override != nil && *s.override == "" {
		return
	}
	empty := ""
	s.override = &empty
	http.SetCookie(s.w, &http.Cookie{
		Name:     TokenName,
		Value:    "",
		Path:     "/",
		Domain:   s.domain,
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	})
}
