package core

import (
	time "time"

	mock "github.com/stretchr/testify/mock"
)

// MockTimeProvider is a mock type for the TimeProvider type
type MockTimeProvider struct {
	mock.Mock
}

func (_m *MockTimeProvider) Now() time.Time {
	ret := _m.Called()
	return ret.Get(0).(time.Time)
}

func (_m *MockTimeProvider) Since(t time.Time) time.Duration {
	ret := _m.Called(t)
	return ret.Get(0).(time.Duration)
}

// NewMockTimeProvider creates a new instance of MockTimeProvider and registers cleanup assertions
func NewMockTimeProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTimeProvider {
	m := &MockTimeProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
