package core

import (
	time "time"

	mock "github.com/stretchr/testify/mock"
)

// MockMetrics is a mock type for the Metrics type
type MockMetrics struct {
	mock.Mock
}

func (_m *MockMetrics) ObserveOperation(op string, outcome string, elapsed time.Duration) {
	_m.Called(op, outcome, elapsed)
}

func (_m *MockMetrics) ObserveDailyBonus(outcome string, rows int64, elapsed time.Duration) {
	_m.Called(outcome, rows, elapsed)
}

func (_m *MockMetrics) ObserveSchedulerCollision() {
	_m.Called()
}

// NewMockMetrics creates a new instance of MockMetrics and registers cleanup assertions
func NewMockMetrics(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMetrics {
	m := &MockMetrics{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
