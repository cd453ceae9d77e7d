package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/websocket"
	"golang.org/x/oauth2"

	"github.com/interview-ai/datasheet-ui/internal/domain/model"
	apperrors "github.com/interview-ai/datasheet-ui/internal/errors"
)

const streamPath = "/ws/query"

// StreamHandler receives each event of a streamed query in arrival order.
// Returning an error stops the stream.
type StreamHandler func(model.StreamEvent) error

type streamQuestion struct {
	Question string `json:"question"`
}

// QueryStream asks a question over the websocket endpoint and reports progress
// events to fn until the backend signals the end of the answer. It returns the
// final result, or an error when the backend reported one.
func (s *Service) QueryStream(ctx context.Context, question string, fn StreamHandler) (*model.QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperrors.ValidationField("question", "question is required")
	}
	if fn == nil {
		fn = func(model.StreamEvent) error { return nil }
	}

	cfg, err := s.streamConfig(ctx)
	if err != nil {
		return nil, err
	}
	conn, err := cfg.DialContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query stream: dial %s: %w", cfg.Location, err)
	}
	defer func() { _ = conn.Close() }()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	// The backend greets with "connected" before it accepts a question.
	hello, err := receiveEvent(ctx, conn)
	if err != nil {
		return nil, err
	}
	if err := fn(hello); err != nil {
		return nil, err
	}

	if err := websocket.JSON.Send(conn, streamQuestion{Question: question}); err != nil {
		return nil, fmt.Errorf("query stream: send question: %w", err)
	}

	var (
		result    *model.QueryResult
		streamErr error
	)
	for {
		ev, err := receiveEvent(ctx, conn)
		if err != nil {
			// The backend may close right after an error event without sending "end".
			if streamErr != nil && ctx.Err() == nil {
				return nil, streamErr
			}
			return nil, err
		}
		if err := fn(ev); err != nil {
			return nil, err
		}

		switch ev.Type {
		case model.StreamResponse:
			res, _ := ev.Result()
			result = &res
		case model.StreamError:
			streamErr = &apperrors.AppError{Code: apperrors.ErrCodeUpstream, Message: ev.Message, Field: ev.ErrorType}
			s.logger.ErrorContext(ctx, "API Error", "status", 0, "payload", ev.Message, "error_type", ev.ErrorType)
		}

		if ev.Type.Terminal() {
			break
		}
	}

	if streamErr != nil {
		return nil, streamErr
	}
	if result == nil {
		return nil, apperrors.Internalf("query stream ended without a response")
	}
	return result, nil
}

func receiveEvent(ctx context.Context, conn *websocket.Conn) (model.StreamEvent, error) {
	var ev model.StreamEvent
	if err := websocket.JSON.Receive(conn, &ev); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ev, ctxErr
		}
		if errors.Is(err, io.EOF) {
			return ev, fmt.Errorf("query stream: connection closed: %w", err)
		}
		return ev, fmt.Errorf("query stream: receive: %w", err)
	}
	return ev, nil
}

// streamConfig derives the websocket URL from the client base URL and carries
// the bearer token the HTTP interceptor would attach.
func (s *Service) streamConfig(ctx context.Context) (*websocket.Config, error) {
	base, err := url.Parse(s.client.BaseURL())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "parse base url")
	}

	origin := &url.URL{Scheme: base.Scheme, Host: base.Host}
	loc := *base
	switch base.Scheme {
	case "https":
		loc.Scheme = "wss"
	default:
		loc.Scheme = "ws"
	}
	loc.Path = strings.TrimRight(base.Path, "/") + streamPath
	loc.RawPath = ""

	cfg, err := websocket.NewConfig(loc.String(), origin.String())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "websocket config")
	}
	if store := s.client.Store(); store != nil {
		if token, ok := store.Get(ctx); ok {
			// The handshake request shares cfg.Header.
			(&oauth2.Token{AccessToken: token}).SetAuthHeader(&http.Request{Header: cfg.Header})
		}
	}
	return cfg, nil
}
