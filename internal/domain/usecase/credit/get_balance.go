package credit

import (
	"context"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
)

// GetBalance returns the user's balance, creating a zero row on first access
func (u *CreditUseCase) GetBalance(ctx context.Context, userID uint64) (credit *entity.Credit, err error) {
	start := u.timeProvider.Now()
	defer func() { u.observe(OpGet, start, err) }()

	if err = entity.ValidateUserID(userID); err != nil {
		return nil, err
	}

	credit, err = u.creditRepo.Get(ctx, userID)
	if err != nil {
		u.logFailure(OpGet, userID, 0, err)
		return nil, err
	}

	u.logger.Debug("Credit balance retrieved", map[string]any{
		"user_id": userID,
		"credits": credit.Credits,
	})
	return credit, nil
}
