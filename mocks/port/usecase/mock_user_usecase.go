package usecase

import (
	context "context"

	entity "github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
	usecase "github.com/amirhossein-jamali/credit-ledger/internal/domain/port/usecase"
	mock "github.com/stretchr/testify/mock"
)

// MockUserUseCase is a mock type for the UserUseCase type
type MockUserUseCase struct {
	mock.Mock
}

func (_m *MockUserUseCase) CreateUser(ctx context.Context, id uint64, email string, name string) (*entity.User, error) {
	ret := _m.Called(ctx, id, email, name)
	var u *entity.User
	if v := ret.Get(0); v != nil {
		u = v.(*entity.User)
	}
	return u, ret.Error(1)
}

func (_m *MockUserUseCase) CreateDefaultUsers(ctx context.Context, users []usecase.DefaultUser) error {
	ret := _m.Called(ctx, users)
	return ret.Error(0)
}

func (_m *MockUserUseCase) UserExists(ctx context.Context, userID uint64) (bool, error) {
	ret := _m.Called(ctx, userID)
	return ret.Bool(0), ret.Error(1)
}

// NewMockUserUseCase creates a new instance of MockUserUseCase and registers cleanup assertions
func NewMockUserUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserUseCase {
	m := &MockUserUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
