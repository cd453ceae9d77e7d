package redis

// Package redis provides Redis-based adapters for the datasheet client.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/interview-ai/datasheet-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenStore  = (*TokenStore)(nil)
	_ ports.TokenSetter = (*TokenStore)(nil)
)

// TokenStore keeps one session token per profile in Redis so several terminals
// share a login. No TTL is set: the backend decides when a token is invalid.
type TokenStore struct {
	client redis.UniversalClient
	key    string
	logger *slog.Logger
}

// TokenStoreOptions groups constructor parameters for TokenStore.
type TokenStoreOptions struct {
	Client  redis.UniversalClient
	Profile string
	Prefix  string // defaults to "token:"
	Logger  *slog.Logger
}

// NewTokenStore creates a Redis-backed token store.
func NewTokenStore(opts TokenStoreOptions) (*TokenStore, error) {
	if opts.Client == nil {
		return nil, errors.New("redis client is required")
	}
	profile := strings.TrimSpace(opts.Profile)
	if profile == "" {
		profile = "default"
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "token:"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenStore{client: opts.Client, key: prefix + profile, logger: logger}, nil
}

// Key returns the Redis key holding the token.
func (s *TokenStore) Key() string { return s.key }

// Get returns the stored token. Redis failures are logged and reported as absent.
func (s *TokenStore) Get(ctx context.Context) (string, bool) {
	token, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "redis token lookup failed", "key", s.key, "error", err)
		}
		return "", false
	}
	return token, token != ""
}

// Set stores the token without expiry.
func (s *TokenStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}

// Clear deletes the token key. Deleting a missing key is a no-op.
func (s *TokenStore) Clear(ctx context.Context) {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		s.logger.ErrorContext(ctx, "redis token delete failed", "key", s.key, "error", err)
	}
}
