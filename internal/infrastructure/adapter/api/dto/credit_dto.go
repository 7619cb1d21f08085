package dto

import (
	"time"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
)

// CreditResponse represents the API response for a user's credit balance
type CreditResponse struct {
	UserID      uint64    `json:"user_id"`
	Credits     int64     `json:"credits"`
	LastUpdated time.Time `json:"last_updated"`
}

// NewCreditResponse maps a balance to its API representation
func NewCreditResponse(c *entity.Credit) CreditResponse {
	return CreditResponse{
		UserID:      c.UserID,
		Credits:     c.Credits,
		LastUpdated: c.LastUpdated.UTC(),
	}
}

// AmountRequest is the body of the add and deduct endpoints. Positivity is
// checked by the use case so that it maps to the invalid amount code.
type AmountRequest struct {
	Amount *int64 `json:"amount" binding:"required"`
}
