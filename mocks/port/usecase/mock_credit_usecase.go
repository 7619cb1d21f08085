package usecase

import (
	context "context"

	entity "github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
	mock "github.com/stretchr/testify/mock"
)

// MockCreditUseCase is a mock type for the CreditUseCase type
type MockCreditUseCase struct {
	mock.Mock
}

func creditResult(ret mock.Arguments) (*entity.Credit, error) {
	var c *entity.Credit
	if v := ret.Get(0); v != nil {
		c = v.(*entity.Credit)
	}
	return c, ret.Error(1)
}

func (_m *MockCreditUseCase) GetBalance(ctx context.Context, userID uint64) (*entity.Credit, error) {
	return creditResult(_m.Called(ctx, userID))
}

func (_m *MockCreditUseCase) AddCredits(ctx context.Context, userID uint64, amount int64) (*entity.Credit, error) {
	return creditResult(_m.Called(ctx, userID, amount))
}

func (_m *MockCreditUseCase) DeductCredits(ctx context.Context, userID uint64, amount int64) (*entity.Credit, error) {
	return creditResult(_m.Called(ctx, userID, amount))
}

func (_m *MockCreditUseCase) ResetCredits(ctx context.Context, userID uint64) (*entity.Credit, error) {
	return creditResult(_m.Called(ctx, userID))
}

func (_m *MockCreditUseCase) RunDailyBonus(ctx context.Context, delta int64) (int64, error) {
	ret := _m.Called(ctx, delta)
	return ret.Get(0).(int64), ret.Error(1)
}

// NewMockCreditUseCase creates a new instance of MockCreditUseCase and registers cleanup assertions
func NewMockCreditUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCreditUseCase {
	m := &MockCreditUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
