package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "github.com/ay-man-sup/personal-finance-tracker/internal/errors"
	"github.com/ay-man-sup/personal-finance-tracker/internal/models"
)

type spendAggregator struct {
	db *gorm.DB
}

// NewSpendAggregator creates an aggregator backed by the given database.
func NewSpendAggregator(db *gorm.DB) SpendAggregator {
	return &spendAggregator{db: db}
}

type categorySum struct {
	Category string
	Total    int64
}

func (a *spendAggregator) SumExpensesByCategory(userID uint, from, to time.Time) (map[string]int64, int64, error) {
	var rows []categorySum
	err := a.db.Model(&models.Transaction{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ? AND date BETWEEN ? AND ?", userID, models.TransactionTypeExpense, from, to).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byCategory := make(map[string]int64, len(rows))
	var total int64
	for _, r := range rows {
		byCategory[r.Category] = r.Total
		total += r.Total
	}
	return byCategory, total, nil
}

func (a *spendAggregator) SumExpenses(userID uint, category string, from time.Time) (int64, error) {
	var total int64
	err := a.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ? AND category = ? AND date >= ?", userID, models.TransactionTypeExpense, category, from).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}
