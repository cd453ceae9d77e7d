package filestore

// Package filestore persists the terminal client's session token in a JSON file.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/interview-ai/datasheet-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenStore  = (*Store)(nil)
	_ ports.TokenSetter = (*Store)(nil)
)

type tokenFile struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// Store keeps the token in a single JSON file readable only by the owner.
type Store struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// New creates a file store at path. The file is created lazily on Set.
func New(path string, logger *slog.Logger) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("token file path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger, now: time.Now}, nil
}

// Path returns the token file location.
func (s *Store) Path() string { return s.path }

// Get reads the token file. A missing, empty or unreadable file means no token.
func (s *Store) Get(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.WarnContext(ctx, "read token file failed", "path", s.path, "error", err)
		}
		return "", false
	}
	if len(b) == 0 {
		return "", false
	}

	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		s.logger.WarnContext(ctx, "decode token file failed", "path", s.path, "error", err)
		return "", false
	}
	token := strings.TrimSpace(tf.Token)
	return token, token != ""
}

// Set writes the token atomically (temp file + rename).
func (s *Store) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(tokenFile{Token: token, SavedAt: s.now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("mkdir token dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

// Clear removes the token file. Missing files are not an error.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.ErrorContext(ctx, "remove token file failed", "path", s.path, "error", err)
	}
}
