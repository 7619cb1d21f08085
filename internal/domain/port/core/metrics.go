package core

import "time"

// Outcome labels reported with ledger operations
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics records ledger activity
type Metrics interface {
	// ObserveOperation records one ledger operation with its outcome and latency
	ObserveOperation(op, outcome string, elapsed time.Duration)
	// ObserveDailyBonus records one bonus sweep and the rows it touched
	ObserveDailyBonus(outcome string, rows int64, elapsed time.Duration)
	// ObserveSchedulerCollision counts firings skipped because a run was in flight
	ObserveSchedulerCollision()
}
