package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StoreKind selects where the CLI keeps its session token.
type StoreKind string

const (
	// StoreFile persists the token in a JSON file under the user config dir.
	StoreFile StoreKind = "file"
	// StoreRedis keeps the token in Redis keyed by profile.
	StoreRedis StoreKind = "redis"
	// StoreMemory keeps the token for the lifetime of the process only.
	StoreMemory StoreKind = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StoreKind.
func (k *StoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "file", "redis", "memory":
		*k = StoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid StoreKind: %q (valid options: file, redis, memory)", v)
	}
}

// SessionConfig controls the token store used by the terminal client.
type SessionConfig struct {
	Store StoreKind `env:"SESSION_STORE" envDefault:"file"`

	// File is the token file path. Empty means ~/.config/datasheets/token.json.
	File string `env:"SESSION_FILE"`

	// Profile namespaces Redis-held tokens so several accounts can coexist.
	Profile string `env:"SESSION_PROFILE" envDefault:"default"`
}

// Sanitize fills derived defaults.
func (s *SessionConfig) Sanitize() {
	if s.Store == "" {
		s.Store = StoreFile
	}
	s.Profile = strings.TrimSpace(s.Profile)
	if s.Profile == "" {
		s.Profile = "default"
	}
	s.File = strings.TrimSpace(s.File)
	if s.File == "" {
		s.File = DefaultTokenFile()
	}
}

// DefaultTokenFile returns the default token file location.
func DefaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return filepath.Join(".datasheets", "token.json")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "datasheets", "token.json")
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}
