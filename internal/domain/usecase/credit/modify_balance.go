package credit

import (
	"context"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
)

// AddCredits adds a positive amount to the user's balance
func (u *CreditUseCase) AddCredits(ctx context.Context, userID uint64, amount int64) (*entity.Credit, error) {
	return u.modify(ctx, OpAdd, userID, amount, func() (*entity.Credit, error) {
		return u.creditRepo.Add(ctx, userID, amount)
	})
}

// DeductCredits removes a positive amount from the user's balance.
// The balance never goes below zero.
func (u *CreditUseCase) DeductCredits(ctx context.Context, userID uint64, amount int64) (*entity.Credit, error) {
	return u.modify(ctx, OpDeduct, userID, amount, func() (*entity.Credit, error) {
		return u.creditRepo.Deduct(ctx, userID, amount)
	})
}

// ResetCredits sets the user's balance to zero
func (u *CreditUseCase) ResetCredits(ctx context.Context, userID uint64) (*entity.Credit, error) {
	return u.modify(ctx, OpReset, userID, 0, func() (*entity.Credit, error) {
		return u.creditRepo.Reset(ctx, userID)
	})
}

func (u *CreditUseCase) modify(
	ctx context.Context,
	op string,
	userID uint64,
	amount int64,
	apply func() (*entity.Credit, error),
) (credit *entity.Credit, err error) {
	start := u.timeProvider.Now()
	defer func() { u.observe(op, start, err) }()

	if err = entity.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if op != OpReset {
		if err = entity.ValidateAmount(amount); err != nil {
			return nil, err
		}
	}

	credit, err = apply()
	if err != nil {
		u.logFailure(op, userID, amount, err)
		return nil, err
	}

	u.logger.Info("Credit balance modified", map[string]any{
		"operation":   op,
		"user_id":     userID,
		"amount":      amount,
		"new_balance": credit.Credits,
	})
	return credit, nil
}
