package usecase

import (
	"context"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
)

// CreditUseCase exposes the ledger operations to the API and the scheduler
type CreditUseCase interface {
	// GetBalance returns the user's balance, creating a zero row on first access
	GetBalance(ctx context.Context, userID uint64) (*entity.Credit, error)

	// AddCredits adds a positive amount to the user's balance
	AddCredits(ctx context.Context, userID uint64, amount int64) (*entity.Credit, error)

	// DeductCredits removes a positive amount, failing with ErrInsufficientBalance
	// when the balance would go negative
	DeductCredits(ctx context.Context, userID uint64, amount int64) (*entity.Credit, error)

	// ResetCredits sets the user's balance to zero
	ResetCredits(ctx context.Context, userID uint64) (*entity.Credit, error)

	// RunDailyBonus adds delta to every existing balance and returns the
	// number of balances touched
	RunDailyBonus(ctx context.Context, delta int64) (int64, error)
}
