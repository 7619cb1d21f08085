package migration

import (
	"context"
	"fmt"

	coreport "github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
	"gorm.io/gorm"
)

// creditsFillFactor leaves page room so balance updates stay HOT updates
const creditsFillFactor = 70

// PostgresTuner applies PostgreSQL-only storage settings. It is a no-op on other dialects.
type PostgresTuner struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewPostgresTuner creates a new tuner
func NewPostgresTuner(db *gorm.DB, logger coreport.Logger) *PostgresTuner {
	return &PostgresTuner{db: db, logger: logger}
}

// Apply runs the tuning statements. Failures are logged, not returned.
func (t *PostgresTuner) Apply(ctx context.Context) error {
	if t.db.Dialector.Name() != "postgres" {
		t.logger.Debug("Skipping PostgreSQL tuning", map[string]any{
			"dialect": t.db.Dialector.Name(),
		})
		return nil
	}

	db := t.db.WithContext(ctx)

	if err := db.Exec(fmt.Sprintf("ALTER TABLE credits SET (fillfactor = %d)", creditsFillFactor)).Error; err != nil {
		t.logger.Warn("Failed to set fillfactor for credits table", map[string]any{
			"error": err.Error(),
		})
	}

	if err := db.Exec(`ALTER TABLE credits SET (autovacuum_vacuum_scale_factor = 0.05)`).Error; err != nil {
		t.logger.Warn("Failed to tune autovacuum for credits table", map[string]any{
			"error": err.Error(),
		})
	}

	t.logger.Info("PostgreSQL tuning applied", map[string]any{
		"fillfactor": creditsFillFactor,
	})
	return nil
}
