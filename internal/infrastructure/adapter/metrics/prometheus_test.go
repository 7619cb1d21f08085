package metrics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
)

func TestLedgerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.ObserveOperation("add", core.OutcomeSuccess, 3*time.Millisecond)
	m.ObserveOperation("add", core.OutcomeSuccess, time.Millisecond)
	m.ObserveOperation("deduct", core.OutcomeRejected, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OperationTotal.WithLabelValues("add", core.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationTotal.WithLabelValues("deduct", core.OutcomeRejected)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.OperationDuration))

	t.Run("daily bonus", func(t *testing.T) {
		m.ObserveDailyBonus(core.OutcomeSuccess, 12, time.Second)
		m.ObserveDailyBonus(core.OutcomeError, 0, time.Second)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.BonusRunTotal.WithLabelValues(core.OutcomeSuccess)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.BonusRunTotal.WithLabelValues(core.OutcomeError)))
		assert.Equal(t, 12.0, testutil.ToFloat64(m.BonusRowsTotal))
		assert.Greater(t, testutil.ToFloat64(m.BonusLastSuccess), 0.0)
	})

	t.Run("collisions", func(t *testing.T) {
		m.ObserveSchedulerCollision()
		assert.Equal(t, 1.0, testutil.ToFloat64(m.SchedulerCollisions))
	})

	t.Run("http", func(t *testing.T) {
		m.ObserveHTTPRequest("GET", "/api/credits/:userId", 200, time.Millisecond)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestTotal.WithLabelValues("GET", "/api/credits/:userId", "200")))
	})

	t.Run("pool", func(t *testing.T) {
		m.ObservePool(sql.DBStats{OpenConnections: 4, InUse: 3, Idle: 1, WaitCount: 7, WaitDuration: 2 * time.Second})
		assert.Equal(t, 4.0, testutil.ToFloat64(m.DBOpenConnections))
		assert.Equal(t, 3.0, testutil.ToFloat64(m.DBInUse))
		assert.Equal(t, 7.0, testutil.ToFloat64(m.DBWaitCount))
		assert.Equal(t, 2.0, testutil.ToFloat64(m.DBWaitSeconds))
	})
}

func TestNewLedgerMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewLedgerMetrics(prometheus.NewRegistry())
		NewLedgerMetrics(prometheus.NewRegistry())
	})
}
