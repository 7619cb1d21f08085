package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/database"
)

const namespace = "credit_ledger"

// LedgerMetrics holds the service's prometheus collectors
type LedgerMetrics struct {
	OperationTotal    *prometheus.CounterVec   // ledger operations by op and outcome
	OperationDuration *prometheus.HistogramVec // ledger operation latency by op

	BonusRunTotal       *prometheus.CounterVec // bonus sweeps by outcome
	BonusRowsTotal      prometheus.Counter     // credit rows touched by bonus sweeps
	BonusDuration       prometheus.Histogram
	BonusLastSuccess    prometheus.Gauge // unix time of the last successful sweep
	SchedulerCollisions prometheus.Counter

	HTTPRequestTotal    *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBOpenConnections prometheus.Gauge
	DBInUse           prometheus.Gauge
	DBIdle            prometheus.Gauge
	DBWaitCount       prometheus.Gauge
	DBWaitSeconds     prometheus.Gauge
}

var (
	_ core.Metrics          = (*LedgerMetrics)(nil)
	_ database.PoolObserver = (*LedgerMetrics)(nil)
)

// NewLedgerMetrics registers all collectors with reg
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	factory := promauto.With(reg)

	return &LedgerMetrics{
		OperationTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of ledger operations",
			},
			[]string{"op", "outcome"}, // outcome: success/rejected/error
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of ledger operations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),

		BonusRunTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "daily_bonus_runs_total",
				Help:      "Total number of daily bonus sweeps",
			},
			[]string{"outcome"},
		),
		BonusRowsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "daily_bonus_rows_total",
			Help:      "Total number of credit rows granted a daily bonus",
		}),
		BonusDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "daily_bonus_duration_seconds",
			Help:      "Duration of daily bonus sweeps",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 15, 60, 300},
		}),
		BonusLastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "daily_bonus_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful daily bonus sweep",
		}),
		SchedulerCollisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_collisions_total",
			Help:      "Daily bonus firings skipped because the previous run was still in flight",
		}),

		HTTPRequestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "db", Name: "open_connections",
			Help: "Established connections, in use and idle",
		}),
		DBInUse: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "db", Name: "in_use_connections",
			Help: "Connections currently in use",
		}),
		DBIdle: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "db", Name: "idle_connections",
			Help: "Idle connections",
		}),
		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "db", Name: "wait_count",
			Help: "Total number of connections waited for",
		}),
		DBWaitSeconds: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "db", Name: "wait_seconds",
			Help: "Total time blocked waiting for a connection",
		}),
	}
}

// ObserveOperation implements core.Metrics
func (m *LedgerMetrics) ObserveOperation(op, outcome string, elapsed time.Duration) {
	m.OperationTotal.WithLabelValues(op, outcome).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveDailyBonus implements core.Metrics
func (m *LedgerMetrics) ObserveDailyBonus(outcome string, rows int64, elapsed time.Duration) {
	m.BonusRunTotal.WithLabelValues(outcome).Inc()
	m.BonusDuration.Observe(elapsed.Seconds())
	if outcome == core.OutcomeSuccess {
		m.BonusRowsTotal.Add(float64(rows))
		m.BonusLastSuccess.SetToCurrentTime()
	}
}

// ObserveSchedulerCollision implements core.Metrics
func (m *LedgerMetrics) ObserveSchedulerCollision() {
	m.SchedulerCollisions.Inc()
}

// ObserveHTTPRequest records one served request. route is the matched
// pattern, not the raw path.
func (m *LedgerMetrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObservePool implements database.PoolObserver
func (m *LedgerMetrics) ObservePool(stats sql.DBStats) {
	m.DBOpenConnections.Set(float64(stats.OpenConnections))
	m.DBInUse.Set(float64(stats.InUse))
	m.DBIdle.Set(float64(stats.Idle))
	m.DBWaitCount.Set(float64(stats.WaitCount))
	m.DBWaitSeconds.Set(stats.WaitDuration.Seconds())
}
