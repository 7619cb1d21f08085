package persistence

import (
	"context"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
)

// CreditRepository is the ledger store. Every method is one atomic unit:
// it either fully applies or leaves storage untouched.
//
// All per-user methods lazily create a zero balance row when the user exists
// and none is present yet.
type CreditRepository interface {
	// Ensure creates the credit row with 0 credits if it is missing. Idempotent.
	//
	// Possible errors:
	// - ErrUserNotFound: If the user doesn't exist
	Ensure(ctx context.Context, userID uint64) error

	// Get returns the current balance
	//
	// Possible errors:
	// - ErrUserNotFound: If the user doesn't exist
	Get(ctx context.Context, userID uint64) (*entity.Credit, error)

	// Add increments the balance by amount
	//
	// Possible errors:
	// - ErrInvalidAmount: If amount <= 0
	// - ErrUserNotFound: If the user doesn't exist
	Add(ctx context.Context, userID uint64, amount int64) (*entity.Credit, error)

	// Deduct decrements the balance by amount, only if it stays >= 0
	//
	// Possible errors:
	// - ErrInvalidAmount: If amount <= 0
	// - ErrUserNotFound: If the user doesn't exist
	// - ErrInsufficientBalance: If credits < amount; nothing changes
	Deduct(ctx context.Context, userID uint64, amount int64) (*entity.Credit, error)

	// Reset sets the balance to 0
	//
	// Possible errors:
	// - ErrUserNotFound: If the user doesn't exist
	Reset(ctx context.Context, userID uint64) (*entity.Credit, error)

	// AddToAll adds delta to every existing credit row and returns how many
	// rows were updated. It never creates rows.
	AddToAll(ctx context.Context, delta int64) (int64, error)
}
