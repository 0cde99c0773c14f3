// Package services contains the business logic of the finance tracker.
package services

import (
	"time"

	"github.com/ay-man-sup/personal-finance-tracker/internal/models"
	"github.com/ay-man-sup/personal-finance-tracker/internal/pagination"
)

// UserServicer manages accounts and credentials.
type UserServicer interface {
	CreateUser(name, email, password, currency string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	RecordLogin(userID uint) error
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
	UpdateProfile(userID uint, name, currency *string) (*models.User, error)
	UpdatePassword(userID uint, currentPassword, newPassword string) error
	DeleteAccount(userID uint, password string) error
}

// TransactionFilter narrows a transaction listing. Nil fields are ignored.
type TransactionFilter struct {
	Type     *models.TransactionType
	Category *string
	FromDate *time.Time
	ToDate   *time.Time
	Search   string
	Sort     string
}

// TransactionInput carries the fields of a transaction create request.
type TransactionInput struct {
	Type               models.TransactionType
	Category           string
	Amount             int64
	Date               time.Time
	Description        string
	Tags               []string
	IsRecurring        bool
	RecurringFrequency *models.RecurringFrequency
}

// TransactionUpdate carries a partial update. Nil fields are left unchanged.
type TransactionUpdate struct {
	Type               *models.TransactionType
	Category           *string
	Amount             *int64
	Date               *time.Time
	Description        *string
	Tags               *[]string
	IsRecurring        *bool
	RecurringFrequency *models.RecurringFrequency
}

// CategorySpend is one row of the expenses-by-category breakdown.
type CategorySpend struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// MonthlySummary is one month of the income/expense trend.
type MonthlySummary struct {
	Year    int   `json:"year"`
	Month   int   `json:"month"`
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

// Summary aggregates a user's activity over a reporting period.
type Summary struct {
	Period             Period           `json:"period"`
	StartDate          time.Time        `json:"start_date"`
	EndDate            time.Time        `json:"end_date"`
	TotalIncome        int64            `json:"total_income"`
	TotalExpense       int64            `json:"total_expense"`
	Balance            int64            `json:"balance"`
	ExpensesByCategory []CategorySpend  `json:"expenses_by_category"`
	MonthlyTrend       []MonthlySummary `json:"monthly_trend"`
}

// CategoryTotal is the lifetime total and count for one (category, type) pair.
type CategoryTotal struct {
	Category string                 `json:"category"`
	Type     models.TransactionType `json:"type"`
	Total    int64                  `json:"total"`
	Count    int64                  `json:"count"`
}

// TransactionServicer manages ledger entries and derived reports.
type TransactionServicer interface {
	CreateTransaction(userID uint, input TransactionInput) (*models.Transaction, *Alert, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, *Alert, error)
	DeleteTransaction(userID, transactionID uint) error
	BulkDeleteTransactions(userID uint, ids []uint) (int64, error)
	GetSummary(userID uint, period Period) (*Summary, error)
	GetCategoryTotals(userID uint) ([]CategoryTotal, error)
	ExportCSV(userID uint, from, to *time.Time) ([]byte, error)
}

// SpendAggregator sums expense transactions. Implementations are pure reads
// and safe for concurrent use.
type SpendAggregator interface {
	// SumExpensesByCategory returns per-category expense totals and the grand
	// total over the inclusive [from, to] window. Categories with no expenses
	// are absent from the map.
	SumExpensesByCategory(userID uint, from, to time.Time) (map[string]int64, int64, error)
	// SumExpenses returns the expense total for one category from the given
	// instant onward (open-ended window).
	SumExpenses(userID uint, category string, from time.Time) (int64, error)
}

// AlertType classifies a budget alert.
type AlertType string

const (
	AlertTypeWarning  AlertType = "warning"
	AlertTypeExceeded AlertType = "exceeded"
)

// Alert is a transient budget notification attached to write responses and
// the alerts listing. Alerts are computed on demand and never stored.
type Alert struct {
	Type        AlertType `json:"type"`
	Category    string    `json:"category"`
	LimitAmount int64     `json:"limit"`
	Spent       int64     `json:"spent"`
	PercentUsed int       `json:"percent_used"`
	Message     string    `json:"message"`
}

// BudgetStatus is a budget enriched with spending figures for the current
// period. Statuses are recomputed on every read and never stored.
type BudgetStatus struct {
	models.Budget
	Spent            int64 `json:"spent"`
	Remaining        int64 `json:"remaining"`
	PercentUsed      int   `json:"percent_used"`
	IsExceeded       bool  `json:"is_exceeded"`
	IsAlertTriggered bool  `json:"is_alert_triggered"`
}

// BudgetSummary rolls up all of a user's budget statuses.
type BudgetSummary struct {
	TotalBudget   int64 `json:"total_budget"`
	TotalSpent    int64 `json:"total_spent"`
	Remaining     int64 `json:"remaining"`
	PercentUsed   int   `json:"percent_used"`
	AlertsCount   int   `json:"alerts_count"`
	ExceededCount int   `json:"exceeded_count"`
}

// BudgetInput carries the fields of a budget create/upsert request.
// Optional fields left nil fall back to the model defaults.
type BudgetInput struct {
	Category       string
	LimitAmount    int64
	Period         *models.BudgetPeriod
	AlertThreshold *int
	AlertsEnabled  *bool
	Color          string
	Notes          string
}

// BudgetUpdate carries a partial budget update. Nil fields are left unchanged.
type BudgetUpdate struct {
	LimitAmount    *int64
	Period         *models.BudgetPeriod
	AlertThreshold *int
	AlertsEnabled  *bool
	Color          *string
	Notes          *string
}

// BudgetServicer manages budgets and their derived statuses and alerts.
type BudgetServicer interface {
	UpsertBudget(userID uint, input BudgetInput) (*models.Budget, error)
	GetActiveBudgets(userID uint) ([]models.Budget, error)
	GetBudgetStatus(userID uint, category string) (*BudgetStatus, error)
	GetBudgetStatuses(userID uint) ([]BudgetStatus, *BudgetSummary, error)
	GetAlerts(userID uint) ([]Alert, error)
	CheckAlertOnWrite(userID uint, category string, incomingAmount int64) (*Alert, error)
	UpdateBudget(userID uint, category string, update BudgetUpdate) (*models.Budget, error)
	DeactivateBudget(userID uint, category string) (*models.Budget, error)
	DeleteBudget(userID uint, category string) error
}

// AuditServicer records mutating actions.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes interface{})
}
