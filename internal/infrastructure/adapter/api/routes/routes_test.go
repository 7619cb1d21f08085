package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/metrics"
	usecasemocks "github.com/amirhossein-jamali/credit-ledger/mocks/port/usecase"
)

type okChecker struct{}

func (okChecker) Check(context.Context) error { return nil }

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewNoopLogger()
	reg := prometheus.NewRegistry()
	m := metrics.NewLedgerMetrics(reg)

	uc := usecasemocks.NewMockCreditUseCase(t)
	uc.On("GetBalance", mock.Anything, uint64(1)).
		Return(&entity.Credit{UserID: 1, Credits: 2, LastUpdated: time.Now().UTC()}, nil).Once()

	router := gin.New()
	SetupMiddlewares(router, log, []string{"*"}, m)
	SetupRoutes(router,
		handler.NewCreditHandler(uc, log),
		handler.NewHealthHandler(okChecker{}, nil, log),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/credits/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `credit_ledger_http_requests_total{method="GET",route="/api/credits/:userId",status="200"} 1`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/schema/update", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
