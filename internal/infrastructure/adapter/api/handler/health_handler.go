package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/api/dto"
)

// DatabaseChecker reports whether storage is reachable
type DatabaseChecker interface {
	Check(ctx context.Context) error
}

// SchedulerStatus exposes the bonus scheduler state
type SchedulerStatus interface {
	IsRunning() bool
	NextRun() time.Time
}

// HealthHandler serves the liveness and readiness endpoint
type HealthHandler struct {
	db        DatabaseChecker
	scheduler SchedulerStatus
	logger    coreport.Logger
}

// NewHealthHandler creates a health handler. scheduler may be nil when the
// bonus job is disabled.
func NewHealthHandler(db DatabaseChecker, scheduler SchedulerStatus, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{db: db, scheduler: scheduler, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	resp := dto.HealthResponse{Status: "ok", Database: "up", Scheduler: "disabled"}
	status := http.StatusOK

	if err := h.db.Check(c.Request.Context()); err != nil {
		h.logger.Warn("Health check failed", map[string]any{"error": err.Error()})
		resp.Status = "degraded"
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}

	if h.scheduler != nil {
		resp.Scheduler = "stopped"
		if h.scheduler.IsRunning() {
			resp.Scheduler = "running"
			next := h.scheduler.NextRun()
			resp.NextBonusRun = &next
		}
	}

	c.JSON(status, resp)
}
