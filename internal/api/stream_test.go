package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/interview-ai/datasheet-ui/internal/domain/model"
	apperrors "github.com/interview-ai/datasheet-ui/internal/errors"
)

type wsEvent map[string]any

func streamHandler(t *testing.T, events ...wsEvent) http.HandlerFunc {
	t.Helper()
	return websocket.Handler(func(ws *websocket.Conn) {
		_ = websocket.JSON.Send(ws, wsEvent{"type": "connected", "message": "Conectado! Envie sua pergunta."})

		var q streamQuestion
		if err := websocket.JSON.Receive(ws, &q); err != nil {
			return
		}
		if q.Question == "" {
			_ = websocket.JSON.Send(ws, wsEvent{"type": "error", "message": "Pergunta não fornecida"})
			return
		}
		for _, ev := range events {
			if err := websocket.JSON.Send(ws, ev); err != nil {
				return
			}
		}
	}).ServeHTTP
}

func TestQueryStream_DeliversEventsAndResult(t *testing.T) {
	f := newFixture(t, "abc")
	f.backend.Handle(http.MethodGet, "/api/ws/query", streamHandler(t,
		wsEvent{"type": "loading_tables", "message": "Carregando tabelas disponíveis..."},
		wsEvent{"type": "tables_loaded", "available_tables": []string{"datasheet_vendas"}, "count": 1},
		wsEvent{"type": "sql_generated", "sql_query": "SELECT 1", "explanation": "conta"},
		wsEvent{"type": "response", "question": "Quantas?", "sql_query": "SELECT 1", "results_count": 1, "humanized_response": "Uma."},
		wsEvent{"type": "end"},
	))

	var seen []model.StreamEventType
	res, err := f.svc.QueryStream(context.Background(), "Quantas?", func(ev model.StreamEvent) error {
		seen = append(seen, ev.Type)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Uma.", res.HumanizedResponse)
	assert.Equal(t, []model.StreamEventType{
		model.StreamConnected,
		model.StreamLoadingTables,
		model.StreamTablesLoaded,
		model.StreamSQLGenerated,
		model.StreamResponse,
		model.StreamEnd,
	}, seen)

	assert.Equal(t, "Bearer abc", f.backend.LastRequest().Header.Get("Authorization"))
}

func TestQueryStream_BackendError(t *testing.T) {
	f := newFixture(t, "")
	f.backend.Handle(http.MethodGet, "/api/ws/query", streamHandler(t,
		wsEvent{"type": "error", "error_type": "validation", "message": "Nenhuma tabela encontrada"},
		wsEvent{"type": "end"},
	))

	_, err := f.svc.QueryStream(context.Background(), "Quantas?", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUpstream, apperrors.GetCode(err))
	assert.Equal(t, "validation", apperrors.GetField(err))
	assert.Contains(t, err.Error(), "Nenhuma tabela encontrada")
}

func TestQueryStream_ClosedBeforeEnd(t *testing.T) {
	f := newFixture(t, "")
	f.backend.Handle(http.MethodGet, "/api/ws/query", streamHandler(t,
		wsEvent{"type": "loading_tables"},
	))

	_, err := f.svc.QueryStream(context.Background(), "Quantas?", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query stream")
}

func TestQueryStream_ContextCancel(t *testing.T) {
	f := newFixture(t, "")
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	f.backend.Handle(http.MethodGet, "/api/ws/query", websocket.Handler(func(ws *websocket.Conn) {
		_ = websocket.JSON.Send(ws, wsEvent{"type": "connected"})
		var q streamQuestion
		_ = websocket.JSON.Receive(ws, &q)
		<-release
	}).ServeHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := f.svc.QueryStream(ctx, "Quantas?", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueryStream_RequiresQuestion(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.svc.QueryStream(context.Background(), "", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, f.backend.Requests())
}

func TestQueryStream_ErrorThenClose(t *testing.T) {
	f := newFixture(t, "")
	f.backend.Handle(http.MethodGet, "/api/ws/query", streamHandler(t,
		wsEvent{"type": "error", "error_type": "internal", "message": "Erro interno: boom"},
	))

	_, err := f.svc.QueryStream(context.Background(), "Quantas?", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUpstream, apperrors.GetCode(err))
	assert.Equal(t, "internal", apperrors.GetField(err))
	assert.Contains(t, err.Error(), "Erro interno: boom")
}
