package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/services"
)

// IncomeHandler handles income-related requests.
type IncomeHandler struct {
	incomeService services.IncomeServicer
	auditService  services.AuditServicer
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(incomeService services.IncomeServicer, auditService services.AuditServicer) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService, auditService: auditService}
}

// CreateIncomeRequest represents the request payload for recording income
type CreateIncomeRequest struct {
	ID          string             `json:"id" binding:"omitempty,uuid"`
	Amount      decimal.Decimal    `json:"amount" swaggertype:"number" binding:"required,gt=0"`
	Source      string             `json:"source" binding:"required,max=255"`
	Category    string             `json:"category" binding:"max=100"`
	Date        string             `json:"date" binding:"required"`
	Description string             `json:"description" binding:"max=1000"`
	AccountID   string             `json:"account_id" binding:"max=100"`
	AccountType models.AccountType `json:"account_type" binding:"omitempty,account_type"`
}

// UpdateIncomeRequest represents a partial update; absent fields are left untouched.
type UpdateIncomeRequest struct {
	Amount      *decimal.Decimal    `json:"amount" swaggertype:"number" binding:"omitempty,gt=0"`
	Source      *string             `json:"source" binding:"omitempty,min=1,max=255"`
	Category    *string             `json:"category" binding:"omitempty,max=100"`
	Date        *string             `json:"date"`
	Description *string             `json:"description" binding:"omitempty,max=1000"`
	AccountID   *string             `json:"account_id" binding:"omitempty,max=100"`
	AccountType *models.AccountType `json:"account_type" binding:"omitempty,account_type"`
}

// CreateIncome records income and mirrors it into the unified ledger
// @Summary     Record income
// @Description Create an income entry; a ledger row with the same id is written after it
// @Tags        income
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateIncomeRequest true "Income details"
// @Success     201 {object} models.Income "Income created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Duplicate id"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income [post]
func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.CreateIncome(c.Request.Context(), userID, services.IncomeInput{
		ID:          req.ID,
		Amount:      req.Amount,
		Source:      req.Source,
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

	h.auditService.Log(c.Request.Context(), userID, "CREATE_INCOME", "income", income.ID, c.ClientIP(),
		map[string]interface{}{"amount": income.Amount.StringFixed(2), "source": income.Source})

	c.JSON(http.StatusCreated, gin.H{"income": income})
}

// ListIncome returns the caller's income entries
// @Summary     List income
// @Description List income entries newest first with optional filters
// @Tags        income
// @Produce     json
// @Security    BearerAuth
// @Param       from_date query string false "Start date (YYYY-MM-DD or RFC3339)"
// @Param       to_date   query string false "End date (YYYY-MM-DD or RFC3339)"
// @Param       category  query string false "Category"
// @Success     200 {array}  models.Income "Income entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income [get]
func (h *IncomeHandler) ListIncome(c *gin.Context) {
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

	income, err := h.incomeService.ListIncome(c.Request.Context(), userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// UpdateIncome applies a partial update to an income entry and its mirror
// @Summary     Update income
// @Description Update the supplied fields only. An id the caller does not own affects zero rows.
// @Tags        income
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Income ID"
// @Param       request body UpdateIncomeRequest true "Fields to update"
// @Success     200 {object} AffectedResponse "Rows affected"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income/{id} [patch]
func (h *IncomeHandler) UpdateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateIncomeRequest
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
	affected, err := h.incomeService.UpdateIncome(c.Request.Context(), userID, id, services.IncomePatch{
		Amount:      req.Amount,
		Source:      req.Source,
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
		h.auditService.Log(c.Request.Context(), userID, "UPDATE_INCOME", "income", id, c.ClientIP(), nil)
	}

	c.JSON(http.StatusOK, AffectedResponse{Affected: affected})
}

// DeleteIncome removes an income entry and its mirror
// @Summary     Delete income
// @Description Delete an income entry and the ledger row sharing its id
// @Tags        income
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Success     200 {object} AffectedResponse "Rows affected"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income/{id} [delete]
func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	affected, err := h.incomeService.DeleteIncome(c.Request.Context(), userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if affected > 0 {
		h.auditService.Log(c.Request.Context(), userID, "DELETE_INCOME", "income", id, c.ClientIP(), nil)
	}

	c.JSON(http.StatusOK, AffectedResponse{Affected: affected})
}
