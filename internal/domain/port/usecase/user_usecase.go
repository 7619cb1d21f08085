package usecase

import (
	"context"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
)

// DefaultUser describes a user seeded at startup in non-production environments
type DefaultUser struct {
	ID    uint64
	Email string
	Name  string
}

// UserUseCase defines methods for user-related business operations
type UserUseCase interface {
	// CreateUser creates a new user with the given identity
	CreateUser(ctx context.Context, id uint64, email, name string) (*entity.User, error)

	// CreateDefaultUsers creates the given users, skipping those already present
	CreateDefaultUsers(ctx context.Context, users []DefaultUser) error

	// UserExists checks if a user exists with the given ID
	UserExists(ctx context.Context, userID uint64) (bool, error)
}
