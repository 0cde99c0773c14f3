package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ay-man-sup/personal-finance-tracker/internal/errors"
	"github.com/ay-man-sup/personal-finance-tracker/internal/models"
	"github.com/ay-man-sup/personal-finance-tracker/internal/services"
)

// BudgetHandler serves the budget endpoints.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

type upsertBudgetRequest struct {
	Category       string  `json:"category" binding:"required,max=100"`
	Limit          int64   `json:"limit" binding:"required,gt=0"`
	Period         *string `json:"period" binding:"omitempty,budget_period"`
	AlertThreshold *int    `json:"alert_threshold" binding:"omitempty,min=0,max=100"`
	AlertsEnabled  *bool   `json:"alerts_enabled"`
	Color          string  `json:"color" binding:"omitempty,hex_color"`
	Notes          string  `json:"notes" binding:"omitempty,max=200"`
}

type updateBudgetRequest struct {
	Limit          *int64  `json:"limit" binding:"omitempty,gt=0"`
	Period         *string `json:"period" binding:"omitempty,budget_period"`
	AlertThreshold *int    `json:"alert_threshold" binding:"omitempty,min=0,max=100"`
	AlertsEnabled  *bool   `json:"alerts_enabled"`
	Color          *string `json:"color" binding:"omitempty,hex_color"`
	Notes          *string `json:"notes" binding:"omitempty,max=200"`
}

// Upsert godoc
// @Summary Create or replace the budget for a category
// @Description A user has one budget per category. Posting an existing
// @Description category replaces its settings and reactivates it.
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body upsertBudgetRequest true "Budget details"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /budgets [post]
func (h *BudgetHandler) Upsert(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req upsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.BudgetInput{
		Category:       req.Category,
		LimitAmount:    req.Limit,
		AlertThreshold: req.AlertThreshold,
		AlertsEnabled:  req.AlertsEnabled,
		Color:          req.Color,
		Notes:          req.Notes,
	}
	if req.Period != nil {
		period := models.BudgetPeriod(*req.Period)
		input.Period = &period
	}

	budget, err := h.budgetService.UpsertBudget(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "upsert", "budget", budget.ID, c.ClientIP(), req)
	c.JSON(http.StatusOK, gin.H{
		"message": "Budget saved",
		"data":    budget,
	})
}

// List godoc
// @Summary List active budgets
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	budgets, err := h.budgetService.GetActiveBudgets(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(budgets), "data": budgets})
}

// StatusAll godoc
// @Summary Evaluate every active budget against current spending
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /budgets/status/all [get]
func (h *BudgetHandler) StatusAll(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	statuses, summary, err := h.budgetService.GetBudgetStatuses(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"data":    statuses,
	})
}

// Alerts godoc
// @Summary List budgets currently at or past their alert threshold
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /budgets/alerts [get]
func (h *BudgetHandler) Alerts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	alerts, err := h.budgetService.GetAlerts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(alerts), "data": alerts})
}

// GetByCategory godoc
// @Summary Get one budget with its current status
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param category path string true "Budget category"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /budgets/{category} [get]
func (h *BudgetHandler) GetByCategory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	status, err := h.budgetService.GetBudgetStatus(userID, c.Param("category"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": status})
}

// Update godoc
// @Summary Update budget settings
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category path string true "Budget category"
// @Param request body updateBudgetRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /budgets/{category} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req updateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.BudgetUpdate{
		LimitAmount:    req.Limit,
		AlertThreshold: req.AlertThreshold,
		AlertsEnabled:  req.AlertsEnabled,
		Color:          req.Color,
		Notes:          req.Notes,
	}
	if req.Period != nil {
		period := models.BudgetPeriod(*req.Period)
		update.Period = &period
	}

	category := c.Param("category")
	budget, err := h.budgetService.UpdateBudget(userID, category, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "budget", budget.ID, c.ClientIP(), req)
	c.JSON(http.StatusOK, gin.H{"data": budget})
}

// Deactivate godoc
// @Summary Deactivate a budget without deleting it
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param category path string true "Budget category"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /budgets/{category}/deactivate [put]
func (h *BudgetHandler) Deactivate(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.DeactivateBudget(userID, c.Param("category"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "deactivate", "budget", budget.ID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{
		"message": "Budget deactivated",
		"data":    budget,
	})
}

// Delete godoc
// @Summary Delete a budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param category path string true "Budget category"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /budgets/{category} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	category := c.Param("category")
	if err := h.budgetService.DeleteBudget(userID, category); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "budget", 0, c.ClientIP(), gin.H{"category": category})
	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted"})
}
