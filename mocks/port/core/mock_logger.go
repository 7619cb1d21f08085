package core

import (
	core "github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
	mock "github.com/stretchr/testify/mock"
)

// MockLogger is a mock type for the Logger type
type MockLogger struct {
	mock.Mock
}

func (_m *MockLogger) Debug(message string, fields map[string]any) {
	_m.Called(message, fields)
}

func (_m *MockLogger) Info(message string, fields map[string]any) {
	_m.Called(message, fields)
}

func (_m *MockLogger) Warn(message string, fields map[string]any) {
	_m.Called(message, fields)
}

func (_m *MockLogger) Error(message string, fields map[string]any) {
	_m.Called(message, fields)
}

func (_m *MockLogger) Flush() error {
	ret := _m.Called()
	return ret.Error(0)
}

func (_m *MockLogger) GetLevel() core.LogLevel {
	ret := _m.Called()
	return ret.Get(0).(core.LogLevel)
}

func (_m *MockLogger) SetLevel(level core.LogLevel) {
	_m.Called(level)
}

// NewMockLogger creates a new instance of MockLogger and registers cleanup assertions
func NewMockLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLogger {
	m := &MockLogger{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
