package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "homeplanner/internal/errors"
	"homeplanner/internal/services"
)

// BudgetHandler handles budget settings and summary requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// BudgetSettingsRequest represents the global budget payload
type BudgetSettingsRequest struct {
	TotalBudget decimal.Decimal `json:"total_budget" swaggertype:"string" binding:"gte=0"`
	Currency    string          `json:"currency" binding:"omitempty,iso4217"`
}

// GetSettings returns the user's budget settings
// @Summary     Get budget settings
// @Description Returns null settings when the user never saved a budget
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.BudgetSettings "Settings"
// @Router      /budget/settings [get]
func (h *BudgetHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.budgetService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpsertSettings saves the user's global budget
// @Summary     Save budget settings
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BudgetSettingsRequest true "Budget settings"
// @Success     200 {object} models.BudgetSettings "Saved settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budget/settings [put]
func (h *BudgetHandler) UpsertSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.budgetService.UpsertSettings(c.Request.Context(), userID, req.TotalBudget, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_BUDGET_SETTINGS", "budget_settings", settings.ID, c.ClientIP(),
		map[string]any{"total_budget": settings.TotalBudget.String(), "currency": settings.Currency})

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// GetSummary returns the budget summary
// @Summary     Budget summary
// @Description Planned, spent and remaining money per category and overall
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} planner.BudgetSummary "Summary"
// @Router      /budget/summary [get]
func (h *BudgetHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.budgetService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
