package credit

import (
	"context"
	"fmt"
)

// RunDailyBonus adds delta to every existing balance. Users without a
// balance row are not touched and no row is created for them.
func (u *CreditUseCase) RunDailyBonus(ctx context.Context, delta int64) (int64, error) {
	start := u.timeProvider.Now()

	rows, err := u.creditRepo.AddToAll(ctx, delta)
	elapsed := u.timeProvider.Since(start)
	u.metrics.ObserveDailyBonus(outcomeOf(err), rows, elapsed)
	if err != nil {
		u.logger.Error("Daily bonus failed", map[string]any{
			"delta": delta,
			"error": err.Error(),
		})
		return 0, fmt.Errorf("daily bonus: %w", err)
	}

	u.logger.Info("Daily bonus granted", map[string]any{
		"delta":      delta,
		"rows":       rows,
		"elapsed_ms": elapsed.Milliseconds(),
	})
	return rows, nil
}
