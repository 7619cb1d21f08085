package entity

import (
	"time"

	errs "github.com/amirhossein-jamali/credit-ledger/internal/domain/error"
)

// DailyBonusAmount is the delta granted to every credit row by the daily job
const DailyBonusAmount int64 = 5

// Credit is the balance row of a single user.
// Credits is never negative.
type Credit struct {
	UserID      uint64
	Credits     int64
	LastUpdated time.Time
}

// ValidateUserID rejects the zero id
func ValidateUserID(userID uint64) error {
	if userID == 0 {
		return errs.ErrInvalidUserID
	}
	return nil
}

// ValidateAmount checks that a credit amount is a positive integer
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return errs.ErrInvalidAmount
	}
	return nil
}

// CanDeduct reports whether amount can be taken without going negative
func (c *Credit) CanDeduct(amount int64) bool {
	return amount > 0 && c.Credits >= amount
}
