package ports

// Package ports defines the capabilities the API client and router depend on.
// Implementations live in internal/adapters; tests use internal/mocks.

import "context"

// TokenStore reads and clears the session token.
// It is the only component allowed to persist the token.
type TokenStore interface {
	// Get returns the current token, or ok=false when none is present.
	Get(ctx context.Context) (token string, ok bool)

	// Clear removes the token. It is idempotent and never fails; adapters log
	// backend failures instead of returning them.
	Clear(ctx context.Context)
}

// TokenSetter is implemented by stores that can persist a token received from
// a login or registration response.
type TokenSetter interface {
	Set(ctx context.Context, token string) error
}

// Navigator performs a client-side navigation to an application route.
// The web frontend answers with a redirect; the terminal client prints the target.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(ctx context.Context, path string)

// Navigate calls f(ctx, path).
func (f NavigatorFunc) Navigate(ctx context.Context, path string) { f(ctx, path) }
