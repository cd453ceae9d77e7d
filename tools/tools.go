//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` or run through
// `go run pkg@version`, and are not tracked in go.mod since they are
// development tools, not runtime dependencies.
package tools

// Development tools:
//
// Air - Live reload for the web frontend (pair with DEV=true and HTTP_TEMPLATE_DIR=web/templates)
//   Install: go install github.com/air-verse/air@v1.63.0
//   Version: v1.63.0 (pinned 2025-01-01)
//   Docs: https://github.com/air-verse/air
//
// mockgen - Regenerates internal/mocks from internal/ports
//   Run: go generate ./internal/mocks
//   Version: go.uber.org/mock v0.6.0 (matches go.mod)
//   Docs: https://github.com/uber-go/mock
