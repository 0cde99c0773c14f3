package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/ay-man-sup/personal-finance-tracker/internal/errors"
	"github.com/ay-man-sup/personal-finance-tracker/internal/models"
)

type budgetService struct {
	db         *gorm.DB
	aggregator SpendAggregator
}

// NewBudgetService creates a budget service backed by the given database.
func NewBudgetService(db *gorm.DB, aggregator SpendAggregator) BudgetServicer {
	return &budgetService{db: db, aggregator: aggregator}
}

// UpsertBudget creates or replaces the budget for (user, category).
// Optional fields omitted from the input are reset to their defaults, and a
// previously deactivated budget is reactivated.
func (s *budgetService) UpsertBudget(userID uint, input BudgetInput) (*models.Budget, error) {
	if input.LimitAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget limit must be positive")
	}

	period := models.BudgetPeriodMonthly
	if input.Period != nil {
		period = *input.Period
	}
	threshold := models.DefaultAlertThreshold
	if input.AlertThreshold != nil {
		threshold = *input.AlertThreshold
	}
	alertsEnabled := true
	if input.AlertsEnabled != nil {
		alertsEnabled = *input.AlertsEnabled
	}
	color := input.Color
	if color == "" {
		color = models.DefaultBudgetColor
	}

	var budget models.Budget
	err := s.db.Where("user_id = ? AND category = ?", userID, input.Category).First(&budget).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"limit_amount":    input.LimitAmount,
			"period":          period,
			"alert_threshold": threshold,
			"alerts_enabled":  alertsEnabled,
			"color":           color,
			"notes":           input.Notes,
			"is_active":       true,
		}
		if err := s.db.Model(&budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &budget, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		monthStart, _ := MonthWindow(time.Now())
		budget = models.Budget{
			UserID:         userID,
			Category:       input.Category,
			LimitAmount:    input.LimitAmount,
			Period:         period,
			AlertThreshold: threshold,
			AlertsEnabled:  alertsEnabled,
			Color:          color,
			Notes:          input.Notes,
			StartDate:      monthStart,
			IsActive:       true,
		}
		if err := s.db.Create(&budget).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &budget, nil

	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// GetActiveBudgets returns the user's active budgets ordered by category.
func (s *budgetService) GetActiveBudgets(userID uint) ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("category ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetStatus evaluates a single budget against the current month's
// spending.
func (s *budgetService) GetBudgetStatus(userID uint, category string) (*BudgetStatus, error) {
	budget, err := s.findBudget(userID, category)
	if err != nil {
		return nil, err
	}

	from, to := MonthWindow(time.Now())
	byCategory, total, err := s.aggregator.SumExpensesByCategory(userID, from, to)
	if err != nil {
		return nil, err
	}

	status := EvaluateBudget(*budget, SpentFor(budget, byCategory, total))
	return &status, nil
}

// GetBudgetStatuses evaluates every active budget with a single aggregation
// pass over the current month and rolls the results up into a summary.
func (s *budgetService) GetBudgetStatuses(userID uint) ([]BudgetStatus, *BudgetSummary, error) {
	budgets, err := s.GetActiveBudgets(userID)
	if err != nil {
		return nil, nil, err
	}

	from, to := MonthWindow(time.Now())
	byCategory, total, err := s.aggregator.SumExpensesByCategory(userID, from, to)
	if err != nil {
		return nil, nil, err
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	summary := &BudgetSummary{}
	for _, b := range budgets {
		status := EvaluateBudget(b, SpentFor(&b, byCategory, total))
		statuses = append(statuses, status)

		summary.TotalBudget += b.LimitAmount
		summary.TotalSpent += status.Spent
		if status.IsAlertTriggered {
			summary.AlertsCount++
		}
		if status.IsExceeded {
			summary.ExceededCount++
		}
	}

	summary.Remaining = summary.TotalBudget - summary.TotalSpent
	summary.PercentUsed = PercentUsed(summary.TotalSpent, summary.TotalBudget)

	return statuses, summary, nil
}

// GetAlerts returns an alert for every budget currently at or past its
// threshold, or exceeded.
func (s *budgetService) GetAlerts(userID uint) ([]Alert, error) {
	statuses, _, err := s.GetBudgetStatuses(userID)
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0)
	for _, status := range statuses {
		if status.IsAlertTriggered || status.IsExceeded {
			alerts = append(alerts, statusAlert(status))
		}
	}
	return alerts, nil
}

// CheckAlertOnWrite evaluates the category's budget as it stands after an
// expense write. The month-to-date spend is read from the store and
// incomingAmount is added on top; callers that have already persisted the
// triggering transaction pass 0 on re-checks. Returns nil when no active
// budget exists for the category or its alerts are disabled.
func (s *budgetService) CheckAlertOnWrite(userID uint, category string, incomingAmount int64) (*Alert, error) {
	var budget models.Budget
	err := s.db.Where("user_id = ? AND category = ? AND is_active = ?", userID, category, true).
		First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !budget.AlertsEnabled {
		return nil, nil
	}

	monthStart, _ := MonthWindow(time.Now())
	spent, err := s.aggregator.SumExpenses(userID, category, monthStart)
	if err != nil {
		return nil, err
	}

	return buildWriteAlert(&budget, spent+incomingAmount), nil
}

// UpdateBudget applies a partial update to the budget for (user, category).
func (s *budgetService) UpdateBudget(userID uint, category string, update BudgetUpdate) (*models.Budget, error) {
	budget, err := s.findBudget(userID, category)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.LimitAmount != nil {
		if *update.LimitAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget limit must be positive")
		}
		updates["limit_amount"] = *update.LimitAmount
	}
	if update.Period != nil {
		updates["period"] = *update.Period
	}
	if update.AlertThreshold != nil {
		updates["alert_threshold"] = *update.AlertThreshold
	}
	if update.AlertsEnabled != nil {
		updates["alerts_enabled"] = *update.AlertsEnabled
	}
	if update.Color != nil {
		updates["color"] = *update.Color
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	if len(updates) == 0 {
		return budget, nil
	}

	if err := s.db.Model(budget).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// DeactivateBudget stops a budget from being evaluated without deleting it.
func (s *budgetService) DeactivateBudget(userID uint, category string) (*models.Budget, error) {
	budget, err := s.findBudget(userID, category)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(budget).Update("is_active", false).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// DeleteBudget removes the budget row entirely.
func (s *budgetService) DeleteBudget(userID uint, category string) error {
	budget, err := s.findBudget(userID, category)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *budgetService) findBudget(userID uint, category string) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.Where("user_id = ? AND category = ?", userID, category).First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrBudgetNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}
