package model

import (
	"time"
)

// User represents the database model for users
type User struct {
	UserID    uint64    `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Credit rows reference users and are removed together with their user
	Credit *Credit `gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
