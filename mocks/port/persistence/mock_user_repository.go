package persistence

import (
	context "context"

	entity "github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
	mock "github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock type for the UserRepository type
type MockUserRepository struct {
	mock.Mock
}

func (_m *MockUserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	ret := _m.Called(ctx, id)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockUserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	ret := _m.Called(ctx, id)
	var u *entity.User
	if v := ret.Get(0); v != nil {
		u = v.(*entity.User)
	}
	return u, ret.Error(1)
}

func (_m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	ret := _m.Called(ctx, user)
	return ret.Error(0)
}

// NewMockUserRepository creates a new instance of MockUserRepository and registers cleanup assertions
func NewMockUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
