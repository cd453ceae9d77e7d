package apiclient

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/interview-ai/datasheet-ui/internal/ports"
)

// RequestIDHeader correlates client log lines with backend logs.
const RequestIDHeader = "X-Request-ID"

// AuthInterceptor attaches "Authorization: Bearer <token>" when the store holds
// a token and leaves the request untouched otherwise.
func AuthInterceptor(store ports.TokenStore) RequestInterceptor {
	return func(req *http.Request) error {
		token, ok := store.Get(req.Context())
		if !ok {
			return nil
		}
		(&oauth2.Token{AccessToken: token}).SetAuthHeader(req)
		return nil
	}
}

// RequestIDInterceptor sets a random X-Request-ID unless the caller supplied one.
func RequestIDInterceptor() RequestInterceptor {
	return func(req *http.Request) error {
		if req.Header.Get(RequestIDHeader) == "" {
			req.Header.Set(RequestIDHeader, uuid.NewString())
		}
		return nil
	}
}

// ErrorInterceptorOptions configures ErrorInterceptor.
type ErrorInterceptorOptions struct {
	Logger *slog.Logger

	// Store and Navigator handle 401s. Either may be nil, in which case that
	// half of the session reset is skipped.
	Store     ports.TokenStore
	Navigator ports.Navigator

	// LoginPath defaults to "/auth".
	LoginPath string
}

// ErrorInterceptor logs every failure and, on 401, clears the token store and
// navigates to the login route. The failure is always handed back unchanged.
// Concurrent 401s observed by the same interceptor collapse into one reset.
func ErrorInterceptor(opts ErrorInterceptorOptions) ResponseInterceptor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = LoginPath
	}
	var resets singleflight.Group

	return func(ctx context.Context, resp *Response, err error) (*Response, error) {
		if err == nil {
			return resp, nil
		}

		logger.ErrorContext(ctx, "API Error",
			"status", StatusCode(err),
			"payload", errorPayload(err),
		)

		if IsUnauthorized(err) {
			_, _, _ = resets.Do(loginPath, func() (any, error) {
				if opts.Store != nil {
					opts.Store.Clear(ctx)
				}
				if opts.Navigator != nil {
					opts.Navigator.Navigate(ctx, loginPath)
				}
				return nil, nil
			})
		}

		return resp, err
	}
}
