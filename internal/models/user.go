package models

import "time"

// User represents an account holder. Passwords are stored as bcrypt hashes
// and never serialized.
type User struct {
	Base
	Name             string     `gorm:"size:100;not null" json:"name"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	Currency         string     `gorm:"size:3;not null;default:USD" json:"currency"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	Transactions []Transaction `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Budgets      []Budget      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
