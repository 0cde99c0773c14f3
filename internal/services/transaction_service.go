package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "github.com/ay-man-sup/personal-finance-tracker/internal/errors"
	"github.com/ay-man-sup/personal-finance-tracker/internal/models"
	"github.com/ay-man-sup/personal-finance-tracker/internal/pagination"
)

const (
	// maxTransactionAmount is 999,999,999.99 in cents.
	maxTransactionAmount = 99_999_999_999
	maxTags              = 10
	maxTagLength         = 30

	trendMonths = 12
)

type transactionService struct {
	db      *gorm.DB
	budgets BudgetServicer
}

// NewTransactionService creates a transaction service. The budget service is
// consulted after expense writes to produce budget alerts.
func NewTransactionService(db *gorm.DB, budgets BudgetServicer) TransactionServicer {
	return &transactionService{db: db, budgets: budgets}
}

// CreateTransaction validates and persists a new ledger entry. For expense
// transactions the category's budget is checked afterwards and any resulting
// alert is returned alongside the transaction; income never produces one.
func (s *transactionService) CreateTransaction(userID uint, input TransactionInput) (*models.Transaction, *Alert, error) {
	if input.Amount <= 0 {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be positive")
	}
	if input.Amount > maxTransactionAmount {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount exceeds the maximum allowed")
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}
	if date.After(time.Now()) {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Transaction date cannot be in the future")
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, nil, err
	}
	if err := validateRecurrence(input.IsRecurring, input.RecurringFrequency); err != nil {
		return nil, nil, err
	}

	transaction := &models.Transaction{
		UserID:             userID,
		Type:               input.Type,
		Category:           input.Category,
		Amount:             input.Amount,
		Date:               date,
		Description:        input.Description,
		Tags:               tags,
		IsRecurring:        input.IsRecurring,
		RecurringFrequency: input.RecurringFrequency,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var alert *Alert
	if transaction.Type == models.TransactionTypeExpense {
		alert, err = s.budgets.CheckAlertOnWrite(userID, transaction.Category, transaction.Amount)
		if err != nil {
			return nil, nil, err
		}
	}

	return transaction, alert, nil
}

// GetUserTransactions lists the user's transactions with pagination and
// optional filters.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Normalize()

	query := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	query = applyTransactionFilters(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	err := query.Order(parseSort(filter.Sort)).
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return pagination.NewPageResponse(transactions, page, total), nil
}

// GetTransactionByID fetches one transaction owned by the user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	return s.findTransaction(userID, transactionID)
}

// UpdateTransaction applies a partial update and, when the resulting
// transaction is an expense, re-checks its budget with no incoming amount.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, *Alert, error) {
	transaction, err := s.findTransaction(userID, transactionID)
	if err != nil {
		return nil, nil, err
	}

	updates := map[string]interface{}{}
	if update.Type != nil {
		updates["type"] = *update.Type
	}
	if update.Category != nil {
		updates["category"] = *update.Category
	}
	if update.Amount != nil {
		if *update.Amount <= 0 || *update.Amount > maxTransactionAmount {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be positive and within the maximum allowed")
		}
		updates["amount"] = *update.Amount
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Tags != nil {
		tags, err := normalizeTags(*update.Tags)
		if err != nil {
			return nil, nil, err
		}
		updates["tags"] = tags
	}

	isRecurring := transaction.IsRecurring
	if update.IsRecurring != nil {
		isRecurring = *update.IsRecurring
		updates["is_recurring"] = isRecurring
	}
	frequency := transaction.RecurringFrequency
	if update.RecurringFrequency != nil {
		frequency = update.RecurringFrequency
		updates["recurring_frequency"] = *update.RecurringFrequency
	}
	if !isRecurring {
		frequency = nil
		updates["recurring_frequency"] = nil
	}
	if err := validateRecurrence(isRecurring, frequency); err != nil {
		return nil, nil, err
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	var alert *Alert
	if transaction.Type == models.TransactionTypeExpense {
		alert, err = s.budgets.CheckAlertOnWrite(userID, transaction.Category, 0)
		if err != nil {
			return nil, nil, err
		}
	}

	return transaction, alert, nil
}

// DeleteTransaction removes one transaction owned by the user.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.findTransaction(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// BulkDeleteTransactions deletes the given transactions in one statement.
// Every ID must belong to the user; a partial match deletes nothing.
func (s *transactionService) BulkDeleteTransactions(userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "No transaction IDs provided")
	}

	var count int64
	err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count != int64(len(ids)) {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Some transactions were not found")
	}

	result := s.db.Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.Transaction{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}

// GetSummary reports totals, the per-category expense breakdown for the
// period, and a 12-month trend. The four aggregates run concurrently.
func (s *transactionService) GetSummary(userID uint, period Period) (*Summary, error) {
	if !period.Valid() {
		period = PeriodMonth
	}

	start, end := DateRange(period, time.Now())
	summary := &Summary{Period: period, StartDate: start, EndDate: end}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		summary.TotalIncome, err = s.sumByType(userID, models.TransactionTypeIncome, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		summary.TotalExpense, err = s.sumByType(userID, models.TransactionTypeExpense, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		summary.ExpensesByCategory, err = s.expensesByCategory(userID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		summary.MonthlyTrend, err = s.monthlyTrend(userID, trendMonths)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.Balance = summary.TotalIncome - summary.TotalExpense
	return summary, nil
}

// GetCategoryTotals returns lifetime totals and counts per (category, type).
func (s *transactionService) GetCategoryTotals(userID uint) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := s.db.Model(&models.Transaction{}).
		Select("category, type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("category, type").
		Order("type ASC, category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// ExportCSV renders the user's transactions, optionally bounded by date, as
// a CSV document ordered newest first.
func (s *transactionService) ExportCSV(userID uint, from, to *time.Time) ([]byte, error) {
	query := s.db.Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date <= ?", *to)
	}

	var transactions []models.Transaction
	if err := query.Order("date DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "Type", "Category", "Amount", "Description", "Tags"}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, t := range transactions {
		record := []string{
			t.Date.Format("2006-01-02"),
			string(t.Type),
			t.Category,
			Dollars(t.Amount),
			t.Description,
			strings.Join(t.Tags, ";"),
		}
		if err := w.Write(record); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return buf.Bytes(), nil
}

func (s *transactionService) findTransaction(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.Where("user_id = ? AND id = ?", userID, transactionID).First(&transaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

func (s *transactionService) sumByType(userID uint, txType models.TransactionType, from, to time.Time) (int64, error) {
	var total int64
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ? AND date BETWEEN ? AND ?", userID, txType, from, to).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

func (s *transactionService) expensesByCategory(userID uint, from, to time.Time) ([]CategorySpend, error) {
	var rows []CategorySpend
	err := s.db.Model(&models.Transaction{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ? AND date BETWEEN ? AND ?", userID, models.TransactionTypeExpense, from, to).
		Group("category").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// monthlyTrend buckets the last N months of activity by calendar month.
// Bucketing happens here rather than in SQL so the same query works on both
// postgres and the sqlite test database.
func (s *transactionService) monthlyTrend(userID uint, months int) ([]MonthlySummary, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -months, 0)

	var rows []struct {
		Type   models.TransactionType
		Amount int64
		Date   time.Time
	}
	err := s.db.Model(&models.Transaction{}).
		Select("type, amount, date").
		Where("user_id = ? AND date >= ?", userID, start).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type monthKey struct {
		year  int
		month int
	}
	buckets := make(map[monthKey]*MonthlySummary)
	for _, r := range rows {
		key := monthKey{r.Date.Year(), int(r.Date.Month())}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &MonthlySummary{Year: key.year, Month: key.month}
			buckets[key] = bucket
		}
		if r.Type == models.TransactionTypeIncome {
			bucket.Income += r.Amount
		} else {
			bucket.Expense += r.Amount
		}
	}

	trend := make([]MonthlySummary, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.Balance = bucket.Income - bucket.Expense
		trend = append(trend, *bucket)
	}
	sort.Slice(trend, func(i, j int) bool {
		if trend[i].Year != trend[j].Year {
			return trend[i].Year < trend[j].Year
		}
		return trend[i].Month < trend[j].Month
	})
	return trend, nil
}

func applyTransactionFilters(query *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		query = query.Where("description LIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// parseSort maps a "-field" style sort parameter onto a safe ORDER BY clause.
// Unknown fields fall back to newest-first.
func parseSort(sort string) string {
	direction := "ASC"
	field := sort
	if strings.HasPrefix(sort, "-") {
		direction = "DESC"
		field = sort[1:]
	}
	switch field {
	case "date", "amount", "category", "created_at":
	default:
		return "date DESC"
	}
	return field + " " + direction
}

func normalizeTags(raw []string) (models.Tags, error) {
	tags := make(models.Tags, 0, len(raw))
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if len(tag) > maxTagLength {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Tags must be at most 30 characters")
		}
		tags = append(tags, tag)
	}
	if len(tags) > maxTags {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "A transaction can have at most 10 tags")
	}
	return tags, nil
}

func validateRecurrence(isRecurring bool, frequency *models.RecurringFrequency) error {
	if isRecurring && frequency == nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Recurring transactions require a frequency")
	}
	if !isRecurring && frequency != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Frequency is only valid for recurring transactions")
	}
	return nil
}
