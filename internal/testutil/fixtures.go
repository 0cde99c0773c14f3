package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ay-man-sup/personal-finance-tracker/internal/models"
)

var fixtureCounter atomic.Uint64

// CreateTestUser inserts a user with a unique email and a known password
// ("password123").
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}

	user := &models.User{
		Name:     "Test User",
		Email:    fmt.Sprintf("user%d@example.com", fixtureCounter.Add(1)),
		Password: string(hash),
		Currency: "USD",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction inserts a transaction dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, category string, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionAt(t, db, userID, txType, category, amount, time.Now())
}

// CreateTestTransactionAt inserts a transaction with an explicit date.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, category string, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:   userID,
		Type:     txType,
		Category: category,
		Amount:   amount,
		Date:     date,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestBudget inserts an active monthly budget with alerts enabled.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, category string, limit int64, threshold int) *models.Budget {
	t.Helper()

	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.Local)
	budget := &models.Budget{
		UserID:         userID,
		Category:       category,
		LimitAmount:    limit,
		Period:         models.BudgetPeriodMonthly,
		AlertThreshold: threshold,
		AlertsEnabled:  true,
		Color:          models.DefaultBudgetColor,
		StartDate:      monthStart,
		IsActive:       true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
