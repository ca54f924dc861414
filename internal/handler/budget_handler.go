package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pantrio/internal/service"
)

// BudgetHandler handles budget tracking endpoints.
type BudgetHandler struct {
	budgetService service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// Create handles POST /api/v1/budgets
func (h *BudgetHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input service.CreateBudgetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	input.UserID = userID

	budget, err := h.budgetService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, budget)
}

// GetActive handles GET /api/v1/budgets/active
func (h *BudgetHandler) GetActive(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	status, err := h.budgetService.GetActiveStatus(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, status)
}

// GetStatus handles GET /api/v1/budgets/:id
func (h *BudgetHandler) GetStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid budget ID")
		return
	}

	status, err := h.budgetService.GetStatus(c.Request.Context(), userID, budgetID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, status)
}

// ListExpenses handles GET /api/v1/budgets/:id/expenses
func (h *BudgetHandler) ListExpenses(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid budget ID")
		return
	}

	expenses, err := h.budgetService.ListExpenses(c.Request.Context(), userID, budgetID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, expenses)
}
