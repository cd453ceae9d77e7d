package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/interview-ai/datasheet-ui/internal/apiclient"
	"github.com/interview-ai/datasheet-ui/internal/domain/model"
	apperrors "github.com/interview-ai/datasheet-ui/internal/errors"
)

// Query asks the backend a natural-language question about the imported tables.
func (s *Service) Query(ctx context.Context, question string) (*model.QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperrors.ValidationField("question", "question is required")
	}

	var out model.QueryResult
	req := apiclient.Request{
		Method: http.MethodPost,
		Path:   "/query",
		Query:  url.Values{"question": []string{question}},
	}
	if err := s.client.DoJSON(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return &out, nil
}

// Health returns the backend liveness report.
func (s *Service) Health(ctx context.Context) (*model.Health, error) {
	var out model.Health
	if err := s.client.DoJSON(ctx, apiclient.Request{Method: http.MethodGet, Path: "/health"}, &out); err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}
	return &out, nil
}
