package services

import (
	"fmt"
	"math"

	"github.com/ay-man-sup/personal-finance-tracker/internal/models"
)

// GeneralCategory is the budget category that caps spending across all
// categories. A budget with this category is evaluated against the grand
// total of the period's expenses, not against a category literally named
// "General".
const GeneralCategory = "General"

// PercentUsed returns spent/limit as a rounded whole percentage.
// A zero or negative limit yields 0, never a division error.
func PercentUsed(spent, limit int64) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Round(float64(spent) / float64(limit) * 100))
}

// Dollars renders cents as a dollar string, e.g. 60000 -> "600.00".
func Dollars(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// SpentFor picks the spend figure a budget is evaluated against: the grand
// total for a General budget, the category's own total otherwise.
func SpentFor(b *models.Budget, byCategory map[string]int64, total int64) int64 {
	if b.Category == GeneralCategory {
		return total
	}
	return byCategory[b.Category]
}

// EvaluateBudget derives the transient status fields for a budget given the
// amount spent against it in the current period.
func EvaluateBudget(b models.Budget, spent int64) BudgetStatus {
	pct := PercentUsed(spent, b.LimitAmount)
	remaining := b.LimitAmount - spent
	if remaining < 0 {
		remaining = 0
	}
	return BudgetStatus{
		Budget:           b,
		Spent:            spent,
		Remaining:        remaining,
		PercentUsed:      pct,
		IsExceeded:       spent > b.LimitAmount,
		IsAlertTriggered: b.AlertsEnabled && pct >= b.AlertThreshold,
	}
}

// buildWriteAlert shapes the alert returned on the transaction write path,
// or nil when spending is below the budget's threshold.
func buildWriteAlert(b *models.Budget, spent int64) *Alert {
	pct := PercentUsed(spent, b.LimitAmount)

	alert := &Alert{
		Category:    b.Category,
		LimitAmount: b.LimitAmount,
		Spent:       spent,
		PercentUsed: pct,
	}

	switch {
	case pct >= 100:
		alert.Type = AlertTypeExceeded
		alert.Message = fmt.Sprintf("Budget exceeded! You've spent $%s of your $%s budget for %s.",
			Dollars(spent), Dollars(b.LimitAmount), b.Category)
	case pct >= b.AlertThreshold:
		alert.Type = AlertTypeWarning
		alert.Message = fmt.Sprintf("Budget alert: You've used %d%% of your %s budget ($%s of $%s).",
			pct, b.Category, Dollars(spent), Dollars(b.LimitAmount))
	default:
		return nil
	}

	return alert
}

// statusAlert shapes the alert for the alerts listing. The warning variant
// carries only the percentage, unlike the write-path message.
func statusAlert(s BudgetStatus) Alert {
	alert := Alert{
		Category:    s.Category,
		LimitAmount: s.LimitAmount,
		Spent:       s.Spent,
		PercentUsed: s.PercentUsed,
	}

	if s.IsExceeded {
		alert.Type = AlertTypeExceeded
		alert.Message = fmt.Sprintf("Budget exceeded! You've spent $%s of your $%s budget for %s.",
			Dollars(s.Spent), Dollars(s.LimitAmount), s.Category)
	} else {
		alert.Type = AlertTypeWarning
		alert.Message = fmt.Sprintf("Budget alert: You've used %d%% of your %s budget.",
			s.PercentUsed, s.Category)
	}

	return alert
}
