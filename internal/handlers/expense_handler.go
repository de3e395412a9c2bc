package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for recording an expense.
// Category falls back to Other.
type CreateExpenseRequest struct {
	ID          string             `json:"id" binding:"omitempty,uuid"`
	Amount      decimal.Decimal    `json:"amount" swaggertype:"number" binding:"required,gt=0"`
	Category    string             `json:"category" binding:"max=100"`
	Date        string             `json:"date" binding:"required"`
	Description string             `json:"description" binding:"max=1000"`
	AccountID   string             `json:"account_id" binding:"max=100"`
	AccountType models.AccountType `json:"account_type" binding:"omitempty,account_type"`
}

// UpdateExpenseRequest represents a partial update; absent fields are left untouched.
type UpdateExpenseRequest struct {
	Amount      *decimal.Decimal    `json:"amount" swaggertype:"number" binding:"omitempty,gt=0"`
	Category    *string             `json:"category" binding:"omitempty,min=1,max=100"`
	Date        *string             `json:"date"`
	Description *string             `json:"description" binding:"omitempty,max=1000"`
	AccountID   *string             `json:"account_id" binding:"omitempty,max=100"`
	AccountType *models.AccountType `json:"account_type" binding:"omitempty,account_type"`
}

// CreateExpense records an expense and mirrors it into the unified ledger
// @Summary     Record an expense
// @Description Create an expense entry; a ledger row with the same id is written after it
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Duplicate id"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), userID, services.ExpenseInput{
		ID:          req.ID,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
		Description: req.Description,
		AccountID:   req.AccountID,
		AccountType: req.AccountType,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": expense.Amount.StringFixed(2), "category": expense.Category})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// ListExpenses returns the caller's expenses
// @Summary     List expenses
// @Description List expenses newest first with optional filters
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       from_date query string false "Start date (YYYY-MM-DD or RFC3339)"
// @Param       to_date   query string false "End date (YYYY-MM-DD or RFC3339)"
// @Param       category  query string false "Category"
// @Success     200 {array}  models.Expense "Expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := entryFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// UpdateExpense applies a partial update to an expense and its mirror
// @Summary     Update an expense
// @Description Update the supplied fields only. An id the caller does not own affects zero rows.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} AffectedResponse "Rows affected"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [patch]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	affected, err := h.expenseService.UpdateExpense(c.Request.Context(), userID, id, services.ExpensePatch{
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
		Description: req.Description,
		AccountID:   req.AccountID,
		AccountType: req.AccountType,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	if affected > 0 {
		h.auditService.Log(c.Request.Context(), userID, "UPDATE_EXPENSE", "expense", id, c.ClientIP(), nil)
	}

	c.JSON(http.StatusOK, AffectedResponse{Affected: affected})
}

// DeleteExpense removes an expense and its mirror
// @Summary     Delete an expense
// @Description Delete an expense and the ledger row sharing its id
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} AffectedResponse "Rows affected"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	affected, err := h.expenseService.DeleteExpense(c.Request.Context(), userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if affected > 0 {
		h.auditService.Log(c.Request.Context(), userID, "DELETE_EXPENSE", "expense", id, c.ClientIP(), nil)
	}

	c.JSON(http.StatusOK, AffectedResponse{Affected: affected})
}
