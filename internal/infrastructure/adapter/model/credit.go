package model

import (
	"time"
)

// Credit is the balance row of one user
type Credit struct {
	UserID      uint64    `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Credits     int64     `gorm:"column:credits;not null;default:0;check:chk_credits_non_negative,credits >= 0"`
	LastUpdated time.Time `gorm:"column:last_updated;not null"`
}

// TableName specifies the table name for Credit
func (Credit) TableName() string {
	return "credits"
}
