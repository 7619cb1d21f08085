package core

import "time"

// TimeProvider abstracts the clock for the domain.
// Implementations return UTC times.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}
