package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func csrfTestHandler(seen *string) http.Handler {
	return CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = CSRFToken(r)
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestCSRFProtection_IssuesTokenOnSafeRequest(t *testing.T) {
	var seen string
	rec := httptest.NewRecorder()
	csrfTestHandler(&seen).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	var issued *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CSRFCookieName {
			issued = c
		}
	}
	if issued == nil || issued.Value == "" {
		t.Fatal("csrf cookie not issued")
	}
	if issued.SameSite != http.SameSiteStrictMode || issued.HttpOnly {
		t.Errorf("unexpected cookie attributes: %+v", issued)
	}
	if seen != issued.Value {
		t.Errorf("context token %q does not match cookie %q", seen, issued.Value)
	}
}

func TestCSRFProtection_KeepsExistingCookie(t *testing.T) {
	var seen string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	csrfTestHandler(&seen).ServeHTTP(rec, req)

	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no new cookie")
	}
	if seen != "existing" {
		t.Errorf("expected context token %q, got %q", "existing", seen)
	}
}

func TestCSRFProtection_UnsafeMethods(t *testing.T) {
	tests := []struct {
		name     string
		cookie   string
		header   string
		form     string
		wantCode int
	}{
		{name: "no cookie", header: "t1", wantCode: http.StatusForbidden},
		{name: "no submitted token", cookie: "t1", wantCode: http.StatusForbidden},
		{name: "header mismatch", cookie: "t1", header: "t2", wantCode: http.StatusForbidden},
		{name: "form mismatch", cookie: "t1", form: "t2", wantCode: http.StatusForbidden},
		{name: "header match", cookie: "t1", header: "t1", wantCode: http.StatusNoContent},
		{name: "form match", cookie: "t1", form: "t1", wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			if tt.form != "" {
				form.Set(CSRFCookieName, tt.form)
			}
			req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}

			var seen string
			rec := httptest.NewRecorder()
			csrfTestHandler(&seen).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

func TestCSRFProtection_SecureBehindProxy(t *testing.T) {
	var seen string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "http, https")
	rec := httptest.NewRecorder()
	csrfTestHandler(&seen).ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].Secure {
		t.Errorf("expected a secure csrf cookie, got %+v", cookies)
	}
}
