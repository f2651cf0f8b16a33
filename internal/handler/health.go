package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the database answers. The cache is
// optional, so an unreachable cache only shows up as "degraded".
type HealthHandler struct {
	db     Pinger
	cache  Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler. cache may be a disabled cache
// whose Ping always succeeds.
func NewHealthHandler(db, cache Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, logger: logger}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// HandleHealth answers 200 while the database is reachable, 503 otherwise.
//
// HTTP: GET /healthz
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := healthResponse{Status: "ok", Database: "ok", Cache: "disabled"}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check: database unreachable", slog.String("error", err.Error()))
		res.Status, res.Database = "unavailable", "unreachable"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			h.logger.Warn("health check: cache unreachable", slog.String("error", err.Error()))
			res.Cache = "unreachable"
			if status == http.StatusOK {
				res.Status = "degraded"
			}
		} else {
			res.Cache = "ok"
		}
	}

	writeJSON(w, status, res)
}
