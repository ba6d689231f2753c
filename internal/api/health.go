package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cirocosta/todo-service/internal/model"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health
type HealthHandler struct {
	pinger Pinger
	logger *zap.Logger
}

// NewHealthHandler creates a health handler that pings pinger
func NewHealthHandler(pinger Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{pinger: pinger, logger: logger}
}

// Check responds 200 {"status":"ok"} when the store answers and
// 503 {"status":"down"} otherwise
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, model.HealthResponse{Status: "down"})
		return
	}

	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "ok"})
}
