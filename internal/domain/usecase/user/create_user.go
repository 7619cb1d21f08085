package user

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/credit-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/credit-ledger/internal/domain/port/usecase"
)

// UserExists checks if a user with the given ID exists
func (u *UserUseCase) UserExists(ctx context.Context, userID uint64) (bool, error) {
	if err := entity.ValidateUserID(userID); err != nil {
		return false, err
	}
	return u.userRepo.Exists(ctx, userID)
}

// CreateUser creates a new user with the given identity
func (u *UserUseCase) CreateUser(ctx context.Context, id uint64, email, name string) (*entity.User, error) {
	user, err := entity.NewUser(id, email, name, u.timeProvider)
	if err != nil {
		return nil, err
	}

	exists, err := u.userRepo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.ErrDuplicateUser
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		u.logger.Error("Failed to create user", map[string]any{
			"user_id": id,
			"error":   err.Error(),
		})
		return nil, err
	}

	u.logger.Info("User created", map[string]any{
		"user_id": id,
		"email":   user.Email,
	})

	return user, nil
}

// CreateDefaultUsers creates each of users that is not present yet
func (u *UserUseCase) CreateDefaultUsers(ctx context.Context, users []usecase.DefaultUser) error {
	created := 0
	for _, du := range users {
		_, err := u.CreateUser(ctx, du.ID, du.Email, du.Name)
		switch {
		case err == nil:
			created++
		case errors.Is(err, errs.ErrDuplicateUser):
			u.logger.Debug("Default user already exists", map[string]any{
				"user_id": du.ID,
			})
		default:
			return err
		}
	}

	u.logger.Info("Default users ensured", map[string]any{
		"requested": len(users),
		"created":   created,
	})
	return nil
}
