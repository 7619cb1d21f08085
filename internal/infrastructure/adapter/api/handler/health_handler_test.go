package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/logger"
)

type stubChecker struct{ err error }

func (s stubChecker) Check(context.Context) error { return s.err }

type stubScheduler struct {
	running bool
	next    time.Time
}

func (s stubScheduler) IsRunning() bool    { return s.running }
func (s stubScheduler) NextRun() time.Time { return s.next }

func serveHealth(t *testing.T, h *HealthHandler) (int, dto.HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", h.Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealthHandler(t *testing.T) {
	next := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	t.Run("healthy with running scheduler", func(t *testing.T) {
		code, resp := serveHealth(t, NewHealthHandler(stubChecker{}, stubScheduler{running: true, next: next}, logger.NewNoopLogger()))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "running", resp.Scheduler)
		require.NotNil(t, resp.NextBonusRun)
		assert.True(t, resp.NextBonusRun.Equal(next))
	})

	t.Run("database down", func(t *testing.T) {
		code, resp := serveHealth(t, NewHealthHandler(stubChecker{err: errors.New("refused")}, nil, logger.NewNoopLogger()))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "down", resp.Database)
		assert.Equal(t, "disabled", resp.Scheduler)
		assert.Nil(t, resp.NextBonusRun)
	})

	t.Run("stopped scheduler", func(t *testing.T) {
		_, resp := serveHealth(t, NewHealthHandler(stubChecker{}, stubScheduler{}, logger.NewNoopLogger()))

		assert.Equal(t, "stopped", resp.Scheduler)
	})
}
