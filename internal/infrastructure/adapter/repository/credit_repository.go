package repository

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/credit-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/credit-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreditRepository implements persistence.CreditRepository using GORM.
//
// Every mutation is a single conditional UPDATE so the database row lock
// serializes concurrent writers on the same user; nothing is read and
// written back from Go.
type CreditRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	errorMapper  *database.ErrorMapper
	retryConfig  database.RetryConfig
}

var _ persistence.CreditRepository = (*CreditRepository)(nil)

// NewCreditRepository creates a new CreditRepository instance
func NewCreditRepository(
	db *gorm.DB,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	errorMapper *database.ErrorMapper,
	retryConfig database.RetryConfig,
) *CreditRepository {
	return &CreditRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
		errorMapper:  errorMapper,
		retryConfig:  retryConfig,
	}
}

func creditModelToEntity(m *model.Credit) *entity.Credit {
	return &entity.Credit{
		UserID:      m.UserID,
		Credits:     m.Credits,
		LastUpdated: m.LastUpdated.UTC(),
	}
}

// inTx runs fn in one database transaction, re-running the whole
// transaction on transient failures
func (r *CreditRepository) inTx(ctx context.Context, operation string, fn func(tx *gorm.DB, now time.Time) error) error {
	err := database.RetryOnTransientError(ctx, r.retryConfig, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(tx, r.timeProvider.Now().UTC())
		})
	}, r.errorMapper, r.logger)

	return r.errorMapper.MapError(err, operation)
}

// ensure inserts the zero row for an existing user. A concurrent insert of
// the same row is absorbed by ON CONFLICT DO NOTHING.
func (r *CreditRepository) ensure(tx *gorm.DB, userID uint64, now time.Time) error {
	var users int64
	if err := tx.Model(&model.User{}).Where("user_id = ?", userID).Count(&users).Error; err != nil {
		return err
	}
	if users == 0 {
		return errs.ErrUserNotFound
	}

	row := model.Credit{UserID: userID, Credits: 0, LastUpdated: now}
	res := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		if r.errorMapper.IsForeignKeyViolation(res.Error) {
			// user deleted between the check and the insert
			return errs.ErrUserNotFound
		}
		return res.Error
	}

	if res.RowsAffected > 0 {
		r.logger.Debug("Credit row created", map[string]any{
			"user_id": userID,
		})
	}
	return nil
}

func (r *CreditRepository) read(tx *gorm.DB, userID uint64) (*entity.Credit, error) {
	var row model.Credit
	if err := tx.Where("user_id = ?", userID).First(&row).Error; err != nil {
		return nil, err
	}
	return creditModelToEntity(&row), nil
}

// Ensure creates the zero credit row for an existing user
func (r *CreditRepository) Ensure(ctx context.Context, userID uint64) error {
	return r.inTx(ctx, "ensuring credits", func(tx *gorm.DB, now time.Time) error {
		return r.ensure(tx, userID, now)
	})
}

// Get returns the balance, creating the zero row on first access
func (r *CreditRepository) Get(ctx context.Context, userID uint64) (*entity.Credit, error) {
	var credit *entity.Credit
	err := r.inTx(ctx, "getting credits", func(tx *gorm.DB, now time.Time) error {
		if err := r.ensure(tx, userID, now); err != nil {
			return err
		}
		var err error
		credit, err = r.read(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return credit, nil
}

// Add increments the balance by amount
func (r *CreditRepository) Add(ctx context.Context, userID uint64, amount int64) (*entity.Credit, error) {
	if err := entity.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var credit *entity.Credit
	err := r.inTx(ctx, "adding credits", func(tx *gorm.DB, now time.Time) error {
		if err := r.ensure(tx, userID, now); err != nil {
			return err
		}

		res := tx.Model(&model.Credit{}).
			Where("user_id = ?", userID).
			Updates(map[string]any{
				"credits":      gorm.Expr("credits + ?", amount),
				"last_updated": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrUserNotFound
		}

		var err error
		credit, err = r.read(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return credit, nil
}

// Deduct decrements the balance by amount when it stays non-negative
func (r *CreditRepository) Deduct(ctx context.Context, userID uint64, amount int64) (*entity.Credit, error) {
	if err := entity.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var credit *entity.Credit
	err := r.inTx(ctx, "deducting credits", func(tx *gorm.DB, now time.Time) error {
		if err := r.ensure(tx, userID, now); err != nil {
			return err
		}

		res := tx.Model(&model.Credit{}).
			Where("user_id = ? AND credits >= ?", userID, amount).
			Updates(map[string]any{
				"credits":      gorm.Expr("credits - ?", amount),
				"last_updated": now,
			})
		if res.Error != nil {
			return res.Error
		}

		current, err := r.read(tx, userID)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return errs.NewInsufficientBalanceError(userID, amount, current.Credits)
		}

		credit = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return credit, nil
}

// Reset sets the balance to zero
func (r *CreditRepository) Reset(ctx context.Context, userID uint64) (*entity.Credit, error) {
	var credit *entity.Credit
	err := r.inTx(ctx, "resetting credits", func(tx *gorm.DB, now time.Time) error {
		if err := r.ensure(tx, userID, now); err != nil {
			return err
		}

		res := tx.Model(&model.Credit{}).
			Where("user_id = ?", userID).
			Updates(map[string]any{
				"credits":      0,
				"last_updated": now,
			})
		if res.Error != nil {
			return res.Error
		}

		var err error
		credit, err = r.read(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return credit, nil
}

// AddToAll adds delta to every existing credit row in one statement.
// A negative delta that would take any row below zero fails as a whole.
func (r *CreditRepository) AddToAll(ctx context.Context, delta int64) (int64, error) {
	var rows int64
	err := r.inTx(ctx, "adding credits to all", func(tx *gorm.DB, now time.Time) error {
		res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Model(&model.Credit{}).
			Updates(map[string]any{
				"credits":      gorm.Expr("credits + ?", delta),
				"last_updated": now,
			})
		if res.Error != nil {
			return res.Error
		}
		rows = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Debug("Credits added to all rows", map[string]any{
		"delta": delta,
		"rows":  rows,
	})
	return rows, nil
}
