package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	// CSRFCookieName names both the cookie and the hidden form field.
	CSRFCookieName = "csrf_token"
	// CSRFHeaderName is the header htmx requests carry the token in.
	CSRFHeaderName = "X-Csrf-Token"

	csrfTokenBytes = 32
	csrfCookieAge  = 12 * 3600
)

// CSRFConfig configures CSRFProtection. Zero values use the package defaults.
type CSRFConfig struct {
	CookieDomain string
	// MaxFormBytes bounds the body read while looking for the form field.
	MaxFormBytes int64
}

// CSRFProtection guards the session cookie with a double-submit token. Every
// request gets a csrf_token cookie; unsafe methods must echo it back in the
// X-Csrf-Token header or the csrf_token form field.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := csrfCookie(r)
			if token == "" {
				var err error
				if token, err = newCSRFToken(); err != nil {
					WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "csrf_unavailable", Err: err})
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					Domain:   cfg.CookieDomain,
					HttpOnly: false, // htmx reads it
					Secure:   requestIsHTTPS(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   csrfCookieAge,
				})
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))
			if isUnsafeMethod(r.Method) && !submittedCSRFToken(w, r, token, cfg.MaxFormBytes) {
				WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "csrf_invalid", Err: errors.New("CSRF token validation failed")})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isUnsafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	}
	return true
}

func csrfCookie(r *http.Request) string {
	c, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func requestIsHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

// submittedCSRFToken compares the header, or failing that the form field,
// against the cookie value in constant time. A token minted on this very
// request never matches, since the client could not have seen it.
func submittedCSRFToken(w http.ResponseWriter, r *http.Request, want string, maxBytes int64) bool {
	if csrfCookie(r) == "" {
		return false
	}
	got := r.Header.Get(CSRFHeaderName)
	if got == "" {
		ct := r.Header.Get("Content-Type")
		switch {
		case strings.HasPrefix(ct, "multipart/form-data"):
			if maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
				if err := r.ParseMultipartForm(maxBytes); err != nil {
					return false
				}
			}
			got = r.FormValue(CSRFCookieName)
		case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
			if err := r.ParseForm(); err != nil {
				return false
			}
			got = r.PostFormValue(CSRFCookieName)
		}
	}
	if got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

type csrfTokenKey struct{}

// CSRFToken returns the token CSRFProtection attached to the request, or "".
func CSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
