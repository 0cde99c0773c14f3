package models

import "time"

// BudgetPeriod is the declared cadence of a budget.
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Defaults applied when a budget is created without the optional fields.
const (
	DefaultAlertThreshold = 80
	DefaultBudgetColor    = "#3B82F6"
)

// Budget caps spending for one category of one user. A user has at most one
// budget row per category, enforced by the composite unique index. LimitAmount
// maps to the limit_amount column because "limit" is a reserved word.
type Budget struct {
	Base
	UserID         uint         `gorm:"not null;uniqueIndex:idx_budgets_user_category" json:"user_id"`
	Category       string       `gorm:"size:100;not null;uniqueIndex:idx_budgets_user_category" json:"category"`
	LimitAmount    int64        `gorm:"column:limit_amount;not null" json:"limit"`
	Period         BudgetPeriod `gorm:"size:10;not null" json:"period"`
	AlertThreshold int          `gorm:"not null" json:"alert_threshold"`
	AlertsEnabled  bool         `gorm:"not null" json:"alerts_enabled"`
	Color          string       `gorm:"size:7" json:"color"`
	Notes          string       `gorm:"size:200" json:"notes"`
	StartDate      time.Time    `gorm:"not null" json:"start_date"`
	IsActive       bool         `gorm:"not null" json:"is_active"`
}
