package cookie

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		name    string
		cookies string
		want    string
		wantOK  bool
	}{
		{name: "only token", cookies: "token=abc", want: "abc", wantOK: true},
		{name: "token between others", cookies: "theme=dark; token=abc; lang=pt", want: "abc", wantOK: true},
		{name: "token last", cookies: "theme=dark; token=abc", want: "abc", wantOK: true},
		{name: "missing", cookies: "theme=dark; lang=pt", wantOK: false},
		{name: "empty string", cookies: "", wantOK: false},
		{name: "empty value", cookies: "token=; theme=dark", wantOK: false},
		{name: "suffix match is not the token", cookies: "csrftoken=zzz", wantOK: false},
		{name: "duplicate token is ambiguous", cookies: "token=a; token=b", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseToken(tt.cookies)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJarStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	jar := NewJarStore("theme=dark")

	_, ok := jar.Get(ctx)
	assert.False(t, ok)

	require.NoError(t, jar.Set(ctx, "abc"))
	token, ok := jar.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", token)
	assert.Equal(t, "theme=dark; token=abc", jar.String())

	require.NoError(t, jar.Set(ctx, "def"))
	token, _ = jar.Get(ctx)
	assert.Equal(t, "def", token)

	jar.Clear(ctx)
	_, ok = jar.Get(ctx)
	assert.False(t, ok)
	assert.Equal(t, "theme=dark", jar.String())

	// Clearing twice is a no-op.
	jar.Clear(ctx)
	_, ok = jar.Get(ctx)
	assert.False(t, ok)
}

func TestRequestStore_ReadsInboundCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
	r.AddCookie(&http.Cookie{Name: TokenName, Value: "abc"})
	w := httptest.NewRecorder()

	store := NewRequestStore(w, r, "")
	token, ok := store.Get(context.Background())
	require.True(t, ok)
	assert.Equal(t, "abc", token)
}

func TestRequestStore_ClearExpiresCookieOnce(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: TokenName, Value: "abc"})
	w := httptest.NewRecorder()
	store := NewRequestStore(w, r, "example.com")
	ctx := context.Background()

	store.Clear(ctx)
	store.Clear(ctx)

	_, ok := store.Get(ctx)
	assert.False(t, ok)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, TokenName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestRequestStore_SetThenGet(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	store := NewRequestStore(w, r, "")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "fresh"))
	token, ok := store.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "fresh", token)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "fresh", cookies[0].Value)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
}
