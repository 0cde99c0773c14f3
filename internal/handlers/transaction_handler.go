package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ay-man-sup/personal-finance-tracker/internal/errors"
	"github.com/ay-man-sup/personal-finance-tracker/internal/models"
	"github.com/ay-man-sup/personal-finance-tracker/internal/pagination"
	"github.com/ay-man-sup/personal-finance-tracker/internal/services"
)

// TransactionHandler serves the transaction endpoints.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

type createTransactionRequest struct {
	Type               string   `json:"type" binding:"required,transaction_type"`
	Category           string   `json:"category" binding:"required,max=100"`
	Amount             int64    `json:"amount" binding:"required,gt=0"`
	Date               string   `json:"date" binding:"omitempty"`
	Description        string   `json:"description" binding:"omitempty,max=500"`
	Tags               []string `json:"tags" binding:"omitempty,max=10,dive,max=30"`
	IsRecurring        bool     `json:"is_recurring"`
	RecurringFrequency *string  `json:"recurring_frequency" binding:"omitempty,recurring_frequency"`
}

type updateTransactionRequest struct {
	Type               *string   `json:"type" binding:"omitempty,transaction_type"`
	Category           *string   `json:"category" binding:"omitempty,max=100"`
	Amount             *int64    `json:"amount" binding:"omitempty,gt=0"`
	Date               *string   `json:"date" binding:"omitempty"`
	Description        *string   `json:"description" binding:"omitempty,max=500"`
	Tags               *[]string `json:"tags" binding:"omitempty,max=10,dive,max=30"`
	IsRecurring        *bool     `json:"is_recurring"`
	RecurringFrequency *string   `json:"recurring_frequency" binding:"omitempty,recurring_frequency"`
}

type bulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// Create godoc
// @Summary Create a transaction
// @Description Creates a ledger entry. Expense transactions are checked
// @Description against the category's budget and any alert is attached to the
// @Description response as budget_alert.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createTransactionRequest true "Transaction details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.TransactionInput{
		Type:        models.TransactionType(req.Type),
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		Tags:        req.Tags,
		IsRecurring: req.IsRecurring,
	}
	if req.Date != "" {
		date, err := parseFlexibleTime(req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date format"))
			return
		}
		input.Date = date
	}
	if req.RecurringFrequency != nil {
		frequency := models.RecurringFrequency(*req.RecurringFrequency)
		input.RecurringFrequency = &frequency
	}

	transaction, alert, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "transaction", transaction.ID, c.ClientIP(), req)
	c.JSON(http.StatusCreated, gin.H{
		"data":         transaction,
		"budget_alert": alert,
	})
}

// List godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param type query string false "income or expense"
// @Param category query string false "Category filter"
// @Param from_date query string false "Start date (YYYY-MM-DD)"
// @Param to_date query string false "End date (YYYY-MM-DD)"
// @Param search query string false "Search in description"
// @Param sort query string false "Sort field, prefix with - for descending"
// @Success 200 {object} map[string]interface{}
// @Router /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": transaction})
}

// Update godoc
// @Summary Update a transaction
// @Description Applies a partial update. If the transaction is an expense
// @Description afterwards, its budget is re-checked and the alert attached.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body updateTransactionRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.TransactionUpdate{
		Amount:      req.Amount,
		Description: req.Description,
		Tags:        req.Tags,
		IsRecurring: req.IsRecurring,
	}
	if req.Type != nil {
		txType := models.TransactionType(*req.Type)
		update.Type = &txType
	}
	if req.Category != nil {
		update.Category = req.Category
	}
	if req.Date != nil {
		date, err := parseFlexibleTime(*req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date format"))
			return
		}
		update.Date = &date
	}
	if req.RecurringFrequency != nil {
		frequency := models.RecurringFrequency(*req.RecurringFrequency)
		update.RecurringFrequency = &frequency
	}

	transaction, alert, err := h.transactionService.UpdateTransaction(userID, id, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "transaction", id, c.ClientIP(), req)
	c.JSON(http.StatusOK, gin.H{
		"data":         transaction,
		"budget_alert": alert,
	})
}

// Delete godoc
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "transaction", id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// BulkDelete godoc
// @Summary Delete multiple transactions
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body bulkDeleteRequest true "Transaction IDs"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /transactions/bulk [delete]
func (h *TransactionHandler) BulkDelete(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	count, err := h.transactionService.BulkDeleteTransactions(userID, req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "bulk_delete", "transaction", 0, c.ClientIP(), req)
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d transactions deleted", count)})
}

// Summary godoc
// @Summary Summarize activity for a period
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param period query string false "week, month or year (default month)"
// @Success 200 {object} map[string]interface{}
// @Router /transactions/summary [get]
func (h *TransactionHandler) Summary(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	period := services.Period(c.DefaultQuery("period", string(services.PeriodMonth)))
	if !period.Valid() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Period must be week, month or year"))
		return
	}

	summary, err := h.transactionService.GetSummary(userID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// Categories godoc
// @Summary List category totals
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /transactions/categories [get]
func (h *TransactionHandler) Categories(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	totals, err := h.transactionService.GetCategoryTotals(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(totals), "data": totals})
}

// ExportCSV godoc
// @Summary Export transactions as CSV
// @Tags transactions
// @Produce text/csv
// @Security BearerAuth
// @Param from_date query string false "Start date (YYYY-MM-DD)"
// @Param to_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {string} string
// @Router /transactions/export/csv [get]
func (h *TransactionHandler) ExportCSV(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var from, to *time.Time
	if value := c.Query("from_date"); value != "" {
		t, err := parseFlexibleTime(value)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from_date"))
			return
		}
		from = &t
	}
	if value := c.Query("to_date"); value != "" {
		t, err := parseFlexibleTime(value)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to_date"))
			return
		}
		to = &t
	}

	data, err := h.transactionService.ExportCSV(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	filter := services.TransactionFilter{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	}

	if value := c.Query("type"); value != "" {
		txType := models.TransactionType(value)
		if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Type must be income or expense")
		}
		filter.Type = &txType
	}
	if value := c.Query("category"); value != "" {
		filter.Category = &value
	}
	if value := c.Query("from_date"); value != "" {
		t, err := parseFlexibleTime(value)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from_date")
		}
		filter.FromDate = &t
	}
	if value := c.Query("to_date"); value != "" {
		t, err := parseFlexibleTime(value)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to_date")
		}
		filter.ToDate = &t
	}

	return filter, nil
}
