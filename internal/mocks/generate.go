// Package mocks provides mock implementations for testing the datasheet client.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// session ports. Hand-written doubles for the same ports live in internal/mocks/session.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockTokenStore(ctrl)
//	store.EXPECT().Get(gomock.Any()).Return("abc", true)
package mocks

// Generate mocks for TokenStore, TokenSetter and Navigator from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/interview-ai/datasheet-ui/internal/ports TokenStore,TokenSetter,Navigator
