package credit

import (
	"time"

	errs "github.com/amirhossein-jamali/credit-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/credit-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/credit-ledger/internal/domain/port/usecase"
)

// Operation names used in logs and metrics
const (
	OpGet        = "get"
	OpAdd        = "add"
	OpDeduct     = "deduct"
	OpReset      = "reset"
	OpDailyBonus = "daily_bonus"
)

// CreditUseCase drives the ledger store
type CreditUseCase struct {
	creditRepo   persistence.CreditRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	metrics      coreport.Metrics
}

var _ usecase.CreditUseCase = (*CreditUseCase)(nil)

// NewCreditUseCase creates a new CreditUseCase
func NewCreditUseCase(
	creditRepo persistence.CreditRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	metrics coreport.Metrics,
) *CreditUseCase {
	return &CreditUseCase{
		creditRepo:   creditRepo,
		timeProvider: timeProvider,
		logger:       logger,
		metrics:      metrics,
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return coreport.OutcomeSuccess
	case errs.IsClientError(err):
		return coreport.OutcomeRejected
	default:
		return coreport.OutcomeError
	}
}

func (u *CreditUseCase) observe(op string, start time.Time, err error) {
	u.metrics.ObserveOperation(op, outcomeOf(err), u.timeProvider.Since(start))
}

// logFailure logs client-side rejections as warnings and everything else as errors
func (u *CreditUseCase) logFailure(op string, userID uint64, amount int64, err error) {
	fields := map[string]any{
		"operation": op,
		"user_id":   userID,
		"amount":    amount,
		"error":     err.Error(),
	}
	if errs.IsClientError(err) {
		u.logger.Warn("Credit operation rejected", fields)
		return
	}
	u.logger.Error("Credit operation failed", fields)
}
