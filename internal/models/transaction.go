package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// RecurringFrequency is how often a recurring transaction repeats.
type RecurringFrequency string

const (
	RecurringDaily   RecurringFrequency = "daily"
	RecurringWeekly  RecurringFrequency = "weekly"
	RecurringMonthly RecurringFrequency = "monthly"
	RecurringYearly  RecurringFrequency = "yearly"
)

// Tags is a list of free-form labels stored as a JSON array in a text column.
type Tags []string

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return errors.New("unsupported column type for tags")
	}
}

// Transaction is a single ledger entry. Amounts are stored as int64 cents
// and are always positive; Type carries the direction.
type Transaction struct {
	Base
	UserID             uint                `gorm:"not null;index" json:"user_id"`
	Type               TransactionType     `gorm:"size:10;not null;index" json:"type"`
	Category           string              `gorm:"size:100;not null;index" json:"category"`
	Amount             int64               `gorm:"not null" json:"amount"`
	Date               time.Time           `gorm:"not null;index" json:"date"`
	Description        string              `gorm:"size:500" json:"description"`
	Tags               Tags                `gorm:"type:text" json:"tags"`
	IsRecurring        bool                `gorm:"not null" json:"is_recurring"`
	RecurringFrequency *RecurringFrequency `gorm:"size:10" json:"recurring_frequency,omitempty"`
}
