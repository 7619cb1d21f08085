package persistence

import (
	context "context"

	entity "github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
	mock "github.com/stretchr/testify/mock"
)

// MockCreditRepository is a mock type for the CreditRepository type
type MockCreditRepository struct {
	mock.Mock
}

func creditResult(ret mock.Arguments) (*entity.Credit, error) {
	var c *entity.Credit
	if v := ret.Get(0); v != nil {
		c = v.(*entity.Credit)
	}
	return c, ret.Error(1)
}

func (_m *MockCreditRepository) Ensure(ctx context.Context, userID uint64) error {
	ret := _m.Called(ctx, userID)
	return ret.Error(0)
}

func (_m *MockCreditRepository) Get(ctx context.Context, userID uint64) (*entity.Credit, error) {
	return creditResult(_m.Called(ctx, userID))
}

func (_m *MockCreditRepository) Add(ctx context.Context, userID uint64, amount int64) (*entity.Credit, error) {
	return creditResult(_m.Called(ctx, userID, amount))
}

func (_m *MockCreditRepository) Deduct(ctx context.Context, userID uint64, amount int64) (*entity.Credit, error) {
	return creditResult(_m.Called(ctx, userID, amount))
}

func (_m *MockCreditRepository) Reset(ctx context.Context, userID uint64) (*entity.Credit, error) {
	return creditResult(_m.Called(ctx, userID))
}

func (_m *MockCreditRepository) AddToAll(ctx context.Context, delta int64) (int64, error) {
	ret := _m.Called(ctx, delta)
	return ret.Get(0).(int64), ret.Error(1)
}

// NewMockCreditRepository creates a new instance of MockCreditRepository and registers cleanup assertions
func NewMockCreditRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCreditRepository {
	m := &MockCreditRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
