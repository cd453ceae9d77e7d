package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const backendHealthTimeout = 2 * time.Second

// Backend states reported by /healthz.
const (
	backendHealthy     = "healthy"
	backendDegraded    = "degraded"
	backendUnreachable = "unreachable"
)

type healthResponse struct {
	Status   string `json:"status"`
	Backend  string `json:"backend"`
	Database string `json:"database,omitempty"`
}

// healthHandler always answers 200 while the frontend is serving; the body
// also reports whether the datasheet backend answered its own health check.
// HEAD skips the backend call.
func healthHandler(sessions *SessionFactory, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		WriteJSON(w, http.StatusOK, checkBackend(w, r, sessions, logger))
	}
}

func checkBackend(w http.ResponseWriter, r *http.Request, sessions *SessionFactory, logger *slog.Logger) healthResponse {
	out := healthResponse{Status: "ok", Backend: backendUnreachable}
	scope, err := sessions.NewScope(w, r)
	if err != nil {
		logger.WarnContext(r.Context(), "health: session unavailable", slog.Any("error", err))
		return out
	}

	ctx, cancel := context.WithTimeout(r.Context(), backendHealthTimeout)
	defer cancel()
	h, err := scope.API.Health(ctx)
	if err != nil {
		logger.DebugContext(r.Context(), "health: backend unreachable", slog.Any("error", err))
		return out
	}

	out.Database = h.Database
	out.Backend = backendDegraded
	if h.Healthy() {
		out.Backend = backendHealthy
	}
	return out
}
