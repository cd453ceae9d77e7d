package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/interview-ai/datasheet-ui/internal/apiclient"
	"github.com/interview-ai/datasheet-ui/internal/domain/model"
	apperrors "github.com/interview-ai/datasheet-ui/internal/errors"
	"github.com/interview-ai/datasheet-ui/internal/ports"
)

// Register creates an account. On success the returned token is saved when
// the token store can persist it.
func (s *Service) Register(ctx context.Context, creds model.Credentials) (*model.AuthResult, error) {
	return s.authenticate(ctx, "/auth/register", creds)
}

// Login exchanges credentials for a session token. On success the returned
// token is saved when the token store can persist it.
func (s *Service) Login(ctx context.Context, creds model.Credentials) (*model.AuthResult, error) {
	return s.authenticate(ctx, "/auth/login", creds)
}

// Me returns the profile of the current session.
func (s *Service) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := s.client.DoJSON(ctx, apiclient.Request{Method: http.MethodGet, Path: "/auth/me"}, &out); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &out, nil
}

// Logout clears the token and navigates to the login route. It never contacts
// the backend and is safe to call repeatedly.
func (s *Service) Logout(ctx context.Context) {
	if store := s.client.Store(); store != nil {
		store.Clear(ctx)
	}
	if s.nav != nil {
		s.nav.Navigate(ctx, apiclient.LoginPath)
	}
}

func (s *Service) authenticate(ctx context.Context, path string, creds model.Credentials) (*model.AuthResult, error) {
	if field := creds.Missing(); field != "" {
		return nil, apperrors.ValidationField(field, field+" is required")
	}

	var out model.AuthResult
	req := apiclient.Request{Method: http.MethodPost, Path: path, JSON: creds}
	if err := s.client.DoJSON(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "authentication rejected"
		}
		return &out, &apperrors.AppError{Code: apperrors.ErrCodeUnauthorized, Message: msg}
	}

	if out.Token == "" {
		return &out, nil
	}
	setter, ok := s.client.Store().(ports.TokenSetter)
	if !ok {
		s.logger.DebugContext(ctx, "token store cannot persist tokens; skipping save", "path", path)
		return &out, nil
	}
	if err := setter.Set(ctx, out.Token); err != nil {
		return &out, apperrors.Wrap(err, apperrors.ErrCodeInternal, "save session token")
	}
	return &out, nil
}
