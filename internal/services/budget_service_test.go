package services

import (
	"strings"
	"testing"

	"github.com/ay-man-sup/personal-finance-tracker/internal/models"
	"github.com/ay-man-sup/personal-finance-tracker/internal/testutil"
)

func newBudgetService(t *testing.T) (BudgetServicer, *models.User, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	service := NewBudgetService(db, NewSpendAggregator(db))
	user := testutil.CreateTestUser(t, db)
	return service, user, func() { testutil.TeardownTestDB(t, db) }
}

func TestUpsertBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewBudgetService(db, NewSpendAggregator(db))
	user := testutil.CreateTestUser(t, db)

	t.Run("creates with defaults", func(t *testing.T) {
		budget, err := service.UpsertBudget(user.ID, BudgetInput{Category: "Food", LimitAmount: 50000})
		testutil.AssertNoError(t, err)

		if budget.Period != models.BudgetPeriodMonthly {
			t.Errorf("expected monthly default, got %s", budget.Period)
		}
		if budget.AlertThreshold != 80 {
			t.Errorf("expected threshold 80, got %d", budget.AlertThreshold)
		}
		if !budget.AlertsEnabled {
			t.Error("alerts should default to enabled")
		}
		if budget.Color != models.DefaultBudgetColor {
			t.Errorf("expected default color, got %s", budget.Color)
		}
		if !budget.IsActive {
			t.Error("new budgets should be active")
		}
		if budget.StartDate.Day() != 1 {
			t.Errorf("start date should default to the first of the month, got %v", budget.StartDate)
		}
	})

	t.Run("replaces instead of duplicating", func(t *testing.T) {
		threshold := 90
		budget, err := service.UpsertBudget(user.ID, BudgetInput{
			Category:       "Food",
			LimitAmount:    70000,
			AlertThreshold: &threshold,
		})
		testutil.AssertNoError(t, err)
		if budget.LimitAmount != 70000 {
			t.Errorf("expected updated limit, got %d", budget.LimitAmount)
		}

		var count int64
		db.Model(&models.Budget{}).Where("user_id = ? AND category = ?", user.ID, "Food").Count(&count)
		if count != 1 {
			t.Errorf("expected one budget per (user, category), got %d", count)
		}
	})

	t.Run("upsert resets omitted fields to defaults", func(t *testing.T) {
		budget, err := service.UpsertBudget(user.ID, BudgetInput{Category: "Food", LimitAmount: 60000})
		testutil.AssertNoError(t, err)
		if budget.AlertThreshold != 80 {
			t.Errorf("omitted threshold should reset to 80, got %d", budget.AlertThreshold)
		}
	})

	t.Run("reactivates a deactivated budget", func(t *testing.T) {
		_, err := service.DeactivateBudget(user.ID, "Food")
		testutil.AssertNoError(t, err)

		budget, err := service.UpsertBudget(user.ID, BudgetInput{Category: "Food", LimitAmount: 60000})
		testutil.AssertNoError(t, err)

		var stored models.Budget
		db.First(&stored, budget.ID)
		if !stored.IsActive {
			t.Error("upsert should reactivate the budget")
		}
	})

	t.Run("rejects non-positive limits", func(t *testing.T) {
		_, err := service.UpsertBudget(user.ID, BudgetInput{Category: "Fun", LimitAmount: 0})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetBudgetStatuses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewBudgetService(db, NewSpendAggregator(db))
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestBudget(t, db, user.ID, "Food", 50000, 80)
	testutil.CreateTestBudget(t, db, user.ID, "Fun", 20000, 80)
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Food", 30000)
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Fun", 20000)

	t.Run("evaluates each budget against its category", func(t *testing.T) {
		statuses, summary, err := service.GetBudgetStatuses(user.ID)
		testutil.AssertNoError(t, err)
		if len(statuses) != 2 {
			t.Fatalf("expected 2 statuses, got %d", len(statuses))
		}

		// Ordered by category: Food then Fun.
		if statuses[0].Category != "Food" || statuses[1].Category != "Fun" {
			t.Fatalf("expected category order Food, Fun; got %s, %s", statuses[0].Category, statuses[1].Category)
		}
		if statuses[0].Spent != 30000 || statuses[0].PercentUsed != 60 {
			t.Errorf("Food: expected spent 30000 at 60%%, got %d at %d%%", statuses[0].Spent, statuses[0].PercentUsed)
		}
		if statuses[1].PercentUsed != 100 || !statuses[1].IsAlertTriggered {
			t.Errorf("Fun: expected triggered at 100%%, got %d%%", statuses[1].PercentUsed)
		}

		if summary.TotalBudget != 70000 || summary.TotalSpent != 50000 {
			t.Errorf("summary totals wrong: %+v", summary)
		}
		if summary.Remaining != 20000 {
			t.Errorf("expected remaining 20000, got %d", summary.Remaining)
		}
		if summary.PercentUsed != 71 {
			t.Errorf("expected rollup 71%%, got %d%%", summary.PercentUsed)
		}
		if summary.AlertsCount != 1 || summary.ExceededCount != 0 {
			t.Errorf("expected 1 alert and 0 exceeded, got %+v", summary)
		}
	})

	t.Run("general budget tracks the grand total", func(t *testing.T) {
		testutil.CreateTestBudget(t, db, user.ID, GeneralCategory, 100000, 80)

		statuses, _, err := service.GetBudgetStatuses(user.ID)
		testutil.AssertNoError(t, err)

		var general *BudgetStatus
		for i := range statuses {
			if statuses[i].Category == GeneralCategory {
				general = &statuses[i]
			}
		}
		if general == nil {
			t.Fatal("expected a General status")
		}
		if general.Spent != 50000 {
			t.Errorf("General should see the grand total 50000, got %d", general.Spent)
		}
	})

	t.Run("inactive budgets are skipped", func(t *testing.T) {
		_, err := service.DeactivateBudget(user.ID, "Fun")
		testutil.AssertNoError(t, err)

		statuses, _, err := service.GetBudgetStatuses(user.ID)
		testutil.AssertNoError(t, err)
		for _, s := range statuses {
			if s.Category == "Fun" {
				t.Error("deactivated budget should not be evaluated")
			}
		}
	})
}

func TestGetBudgetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewBudgetService(db, NewSpendAggregator(db))
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestBudget(t, db, user.ID, "Food", 50000, 80)
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Food", 25000)

	t.Run("returns the evaluated status", func(t *testing.T) {
		status, err := service.GetBudgetStatus(user.ID, "Food")
		testutil.AssertNoError(t, err)
		if status.Spent != 25000 || status.PercentUsed != 50 {
			t.Errorf("expected 25000 at 50%%, got %d at %d%%", status.Spent, status.PercentUsed)
		}
	})

	t.Run("unknown category is not found", func(t *testing.T) {
		_, err := service.GetBudgetStatus(user.ID, "Travel")
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestCheckAlertOnWrite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewBudgetService(db, NewSpendAggregator(db))
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestBudget(t, db, user.ID, "Food", 50000, 80)

	t.Run("no budget means no alert", func(t *testing.T) {
		alert, err := service.CheckAlertOnWrite(user.ID, "Travel", 500000)
		testutil.AssertNoError(t, err)
		if alert != nil {
			t.Fatalf("expected nil alert without a budget, got %+v", alert)
		}
	})

	t.Run("warning when incoming spend reaches the threshold", func(t *testing.T) {
		alert, err := service.CheckAlertOnWrite(user.ID, "Food", 45000)
		testutil.AssertNoError(t, err)
		if alert == nil {
			t.Fatal("expected a warning alert")
		}
		if alert.Type != AlertTypeWarning || alert.PercentUsed != 90 {
			t.Errorf("expected warning at 90%%, got %s at %d%%", alert.Type, alert.PercentUsed)
		}
		if !strings.Contains(alert.Message, "90%") {
			t.Errorf("expected percentage in message: %q", alert.Message)
		}
	})

	t.Run("exceeded past the limit", func(t *testing.T) {
		alert, err := service.CheckAlertOnWrite(user.ID, "Food", 60000)
		testutil.AssertNoError(t, err)
		if alert == nil {
			t.Fatal("expected an exceeded alert")
		}
		if alert.Type != AlertTypeExceeded {
			t.Errorf("expected exceeded, got %s", alert.Type)
		}
		if !strings.Contains(alert.Message, "$600.00") || !strings.Contains(alert.Message, "$500.00") {
			t.Errorf("expected both amounts in message: %q", alert.Message)
		}
	})

	t.Run("adds incoming to persisted month-to-date spend", func(t *testing.T) {
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Food", 30000)

		alert, err := service.CheckAlertOnWrite(user.ID, "Food", 15000)
		testutil.AssertNoError(t, err)
		if alert == nil {
			t.Fatal("expected alert at 90%")
		}
		if alert.Spent != 45000 {
			t.Errorf("expected spent 45000, got %d", alert.Spent)
		}
	})

	t.Run("below threshold is silent", func(t *testing.T) {
		alert, err := service.CheckAlertOnWrite(user.ID, "Food", 1000)
		testutil.AssertNoError(t, err)
		if alert != nil {
			t.Fatalf("expected nil below threshold, got %+v", alert)
		}
	})

	t.Run("disabled alerts are silent even when exceeded", func(t *testing.T) {
		db.Model(&models.Budget{}).
			Where("user_id = ? AND category = ?", user.ID, "Food").
			Update("alerts_enabled", false)

		alert, err := service.CheckAlertOnWrite(user.ID, "Food", 500000)
		testutil.AssertNoError(t, err)
		if alert != nil {
			t.Fatalf("expected nil with alerts disabled, got %+v", alert)
		}
	})

	t.Run("inactive budget is silent", func(t *testing.T) {
		db.Model(&models.Budget{}).
			Where("user_id = ? AND category = ?", user.ID, "Food").
			Updates(map[string]interface{}{"alerts_enabled": true, "is_active": false})

		alert, err := service.CheckAlertOnWrite(user.ID, "Food", 500000)
		testutil.AssertNoError(t, err)
		if alert != nil {
			t.Fatalf("expected nil for inactive budget, got %+v", alert)
		}
	})
}

func TestGetAlerts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewBudgetService(db, NewSpendAggregator(db))
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestBudget(t, db, user.ID, "Food", 50000, 80)
	testutil.CreateTestBudget(t, db, user.ID, "Fun", 20000, 80)
	testutil.CreateTestBudget(t, db, user.ID, "Rent", 100000, 80)
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Food", 45000)
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Fun", 25000)
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Rent", 10000)

	alerts, err := service.GetAlerts(user.ID)
	testutil.AssertNoError(t, err)

	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	byCategory := map[string]Alert{}
	for _, a := range alerts {
		byCategory[a.Category] = a
	}
	if byCategory["Food"].Type != AlertTypeWarning {
		t.Errorf("Food should be a warning, got %s", byCategory["Food"].Type)
	}
	if byCategory["Fun"].Type != AlertTypeExceeded {
		t.Errorf("Fun should be exceeded, got %s", byCategory["Fun"].Type)
	}
	if _, ok := byCategory["Rent"]; ok {
		t.Error("Rent is under threshold and should not alert")
	}
}

func TestBudgetLifecycle(t *testing.T) {
	service, user, teardown := newBudgetService(t)
	defer teardown()

	_, err := service.UpsertBudget(user.ID, BudgetInput{Category: "Food", LimitAmount: 50000})
	testutil.AssertNoError(t, err)

	t.Run("update applies partial changes", func(t *testing.T) {
		limit := int64(80000)
		enabled := false
		budget, err := service.UpdateBudget(user.ID, "Food", BudgetUpdate{
			LimitAmount:   &limit,
			AlertsEnabled: &enabled,
		})
		testutil.AssertNoError(t, err)
		if budget.LimitAmount != 80000 {
			t.Errorf("expected limit 80000, got %d", budget.LimitAmount)
		}
		if budget.AlertThreshold != 80 {
			t.Errorf("untouched field changed: %d", budget.AlertThreshold)
		}
	})

	t.Run("update rejects bad limits", func(t *testing.T) {
		limit := int64(-5)
		_, err := service.UpdateBudget(user.ID, "Food", BudgetUpdate{LimitAmount: &limit})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("deactivate keeps the row", func(t *testing.T) {
		budget, err := service.DeactivateBudget(user.ID, "Food")
		testutil.AssertNoError(t, err)
		if budget.Category != "Food" {
			t.Errorf("unexpected budget returned: %+v", budget)
		}

		budgets, err := service.GetActiveBudgets(user.ID)
		testutil.AssertNoError(t, err)
		if len(budgets) != 0 {
			t.Errorf("deactivated budget still listed: %+v", budgets)
		}
	})

	t.Run("delete removes the row", func(t *testing.T) {
		testutil.AssertNoError(t, service.DeleteBudget(user.ID, "Food"))
		_, err := service.GetBudgetStatus(user.ID, "Food")
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("delete of a missing budget is not found", func(t *testing.T) {
		testutil.AssertAppError(t, service.DeleteBudget(user.ID, "Nope"), "BUDGET_NOT_FOUND")
	})
}
