package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/interview-ai/datasheet-ui/config"
	"github.com/interview-ai/datasheet-ui/internal/adapters/cookie"
	"github.com/interview-ai/datasheet-ui/internal/adapters/filestore"
	redisadapter "github.com/interview-ai/datasheet-ui/internal/adapters/redis"
	"github.com/interview-ai/datasheet-ui/internal/ports"
)

// SessionStore is a token store that can also persist a freshly issued token.
type SessionStore interface {
	ports.TokenStore
	ports.TokenSetter
}

// TokenStoreConfig contains what NewTokenStore needs to pick and build a store.
type TokenStoreConfig struct {
	Session config.SessionConfig
	Redis   config.RedisConfig
	Logger  *slog.Logger
}

// NewTokenStore builds the token store selected by cfg.Session.Store.
// The returned close function releases any connection the store holds.
//
//nolint:ireturn // callers only need the session store capabilities.
func NewTokenStore(ctx context.Context, cfg TokenStoreConfig) (SessionStore, func() error, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	noop := func() error { return nil }

	switch cfg.Session.Store {
	case config.StoreMemory:
		return cookie.NewJarStore(""), noop, nil

	case config.StoreRedis:
		client, err := ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		store, err := redisadapter.NewTokenStore(redisadapter.TokenStoreOptions{
			Client:  client,
			Profile: cfg.Session.Profile,
			Logger:  logger,
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return store, client.Close, nil

	case config.StoreFile, "":
		path := cfg.Session.File
		if path == "" {
			path = config.DefaultTokenFile()
		}
		store, err := filestore.New(path, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}
