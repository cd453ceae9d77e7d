package session

// Package session contains simple hand-written test doubles for the session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	"github.com/interview-ai/datasheet-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenStore  = (*MemoryStore)(nil)
	_ ports.TokenSetter = (*MemoryStore)(nil)
	_ ports.Navigator   = (*RecordingNavigator)(nil)
)

// MemoryStore is an in-memory token store that counts Clear calls.
type MemoryStore struct {
	mu     sync.Mutex
	token  string
	clears int
}

// NewMemoryStore creates a store holding token ("" means absent).
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Get(_ context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.clears++
}

// Clears returns how many times Clear was called.
func (s *MemoryStore) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

// RecordingNavigator records every navigation target.
type RecordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *RecordingNavigator) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

// Paths returns the recorded targets in order.
func (n *RecordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.paths))
	copy(out, n.paths)
	return out
}
