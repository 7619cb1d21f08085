package repository

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/credit-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/credit-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// UserRepository implements persistence.UserRepository using GORM
type UserRepository struct {
	db          *gorm.DB
	logger      coreport.Logger
	errorMapper *database.ErrorMapper
}

var _ persistence.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, logger coreport.Logger, errorMapper *database.ErrorMapper) *UserRepository {
	return &UserRepository{
		db:          db,
		logger:      logger,
		errorMapper: errorMapper,
	}
}

func userModelToEntity(m *model.User) *entity.User {
	return &entity.User{
		ID:        m.UserID,
		Email:     m.Email,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

// Exists reports whether the user row is present
func (r *UserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", id).Count(&n).Error
	if err != nil {
		return false, r.errorMapper.MapError(err, "checking user")
	}
	return n > 0, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var userModel model.User
	err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		r.logger.Error("Database error when getting user", map[string]any{
			"user_id": id,
			"error":   err.Error(),
		})
		return nil, r.errorMapper.MapError(err, "getting user")
	}

	return userModelToEntity(&userModel), nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := model.User{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&userModel).Error; err != nil {
		if r.errorMapper.IsDuplicateKey(err) {
			r.logger.Warn("Duplicate user operation", map[string]any{
				"user_id": user.ID,
			})
			return errs.ErrDuplicateUser
		}
		r.logger.Error("Database error when creating user", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		return r.errorMapper.MapError(err, "creating user")
	}

	r.logger.Debug("User created successfully", map[string]any{
		"user_id": user.ID,
	})
	return nil
}
