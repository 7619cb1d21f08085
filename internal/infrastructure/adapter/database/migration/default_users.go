package migration

import (
	"context"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/port/usecase"
)

// DefaultUsers are seeded in development so the API is usable right away
var DefaultUsers = []usecase.DefaultUser{
	{ID: 1, Email: "alice@example.com", Name: "Alice"},
	{ID: 2, Email: "bob@example.com", Name: "Bob"},
	{ID: 3, Email: "carol@example.com", Name: "Carol"},
}

// CreateDefaultUsers creates the default users that don't exist yet
func CreateDefaultUsers(ctx context.Context, users usecase.UserUseCase) error {
	return users.CreateDefaultUsers(ctx, DefaultUsers)
}
