package services

import (
	"testing"
	"time"

	"github.com/ay-man-sup/personal-finance-tracker/internal/models"
	"github.com/ay-man-sup/personal-finance-tracker/internal/testutil"
)

func TestSumExpensesByCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	aggregator := NewSpendAggregator(db)
	user := testutil.CreateTestUser(t, db)
	from, to := MonthWindow(time.Now())

	t.Run("no data yields empty map and zero total", func(t *testing.T) {
		byCategory, total, err := aggregator.SumExpensesByCategory(user.ID, from, to)
		testutil.AssertNoError(t, err)
		if len(byCategory) != 0 {
			t.Errorf("expected empty map, got %v", byCategory)
		}
		if total != 0 {
			t.Errorf("expected zero total, got %d", total)
		}
	})

	t.Run("sums expenses per category", func(t *testing.T) {
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Food", 30000)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Food", 5000)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Fun", 20000)

		byCategory, total, err := aggregator.SumExpensesByCategory(user.ID, from, to)
		testutil.AssertNoError(t, err)
		if byCategory["Food"] != 35000 {
			t.Errorf("expected Food 35000, got %d", byCategory["Food"])
		}
		if byCategory["Fun"] != 20000 {
			t.Errorf("expected Fun 20000, got %d", byCategory["Fun"])
		}
		if total != 55000 {
			t.Errorf("expected grand total 55000, got %d", total)
		}
	})

	t.Run("income is never counted", func(t *testing.T) {
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, "Food", 99999)

		byCategory, _, err := aggregator.SumExpensesByCategory(user.ID, from, to)
		testutil.AssertNoError(t, err)
		if byCategory["Food"] != 35000 {
			t.Errorf("income leaked into expense sum: %d", byCategory["Food"])
		}
	})

	t.Run("rows outside the window are excluded", func(t *testing.T) {
		beforeWindow := from.Add(-time.Hour)
		testutil.CreateTestTransactionAt(t, db, user.ID, models.TransactionTypeExpense, "Food", 77777, beforeWindow)

		byCategory, _, err := aggregator.SumExpensesByCategory(user.ID, from, to)
		testutil.AssertNoError(t, err)
		if byCategory["Food"] != 35000 {
			t.Errorf("out-of-window row leaked in: %d", byCategory["Food"])
		}
	})

	t.Run("other users are isolated", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, other.ID, models.TransactionTypeExpense, "Food", 11111)

		byCategory, _, err := aggregator.SumExpensesByCategory(user.ID, from, to)
		testutil.AssertNoError(t, err)
		if byCategory["Food"] != 35000 {
			t.Errorf("foreign user's spend leaked in: %d", byCategory["Food"])
		}
	})
}

func TestSumExpenses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	aggregator := NewSpendAggregator(db)
	user := testutil.CreateTestUser(t, db)
	monthStart, _ := MonthWindow(time.Now())

	t.Run("zero on no data", func(t *testing.T) {
		total, err := aggregator.SumExpenses(user.ID, "Food", monthStart)
		testutil.AssertNoError(t, err)
		if total != 0 {
			t.Errorf("expected 0, got %d", total)
		}
	})

	t.Run("open-ended window from month start", func(t *testing.T) {
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Food", 45000)
		testutil.CreateTestTransactionAt(t, db, user.ID, models.TransactionTypeExpense, "Food", 5000, monthStart.Add(-time.Hour))

		total, err := aggregator.SumExpenses(user.ID, "Food", monthStart)
		testutil.AssertNoError(t, err)
		if total != 45000 {
			t.Errorf("expected 45000, got %d", total)
		}
	})

	t.Run("category filter applies", func(t *testing.T) {
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Fun", 9000)

		total, err := aggregator.SumExpenses(user.ID, "Food", monthStart)
		testutil.AssertNoError(t, err)
		if total != 45000 {
			t.Errorf("expected 45000, got %d", total)
		}
	})
}
