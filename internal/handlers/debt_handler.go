package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/services"
)

// DebtHandler handles debt-related requests. Debts are never mirrored into
// the unified ledger.
type DebtHandler struct {
	debtService    services.DebtServicer
	balanceService services.BalanceServicer
	auditService   services.AuditServicer
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(debtService services.DebtServicer, balanceService services.BalanceServicer, auditService services.AuditServicer) *DebtHandler {
	return &DebtHandler{debtService: debtService, balanceService: balanceService, auditService: auditService}
}

// CreateDebtRequest represents the request payload for recording a debt
type CreateDebtRequest struct {
	ID          string            `json:"id" binding:"omitempty,uuid"`
	Type        models.DebtType   `json:"type" binding:"required,debt_type"`
	Amount      decimal.Decimal   `json:"amount" swaggertype:"number" binding:"required,gt=0"`
	PersonName  string            `json:"person_name" binding:"required,max=255"`
	Description string            `json:"description" binding:"max=1000"`
	Date        string            `json:"date" binding:"required"`
	Status      models.DebtStatus `json:"status" binding:"omitempty,debt_status"`
}

// UpdateDebtRequest represents a partial update; absent fields are left untouched.
type UpdateDebtRequest struct {
	Type        *models.DebtType   `json:"type" binding:"omitempty,debt_type"`
	Amount      *decimal.Decimal   `json:"amount" swaggertype:"number" binding:"omitempty,gt=0"`
	PersonName  *string            `json:"person_name" binding:"omitempty,min=1,max=255"`
	Description *string            `json:"description" binding:"omitempty,max=1000"`
	Date        *string            `json:"date"`
	Status      *models.DebtStatus `json:"status" binding:"omitempty,debt_status"`
}

// DebtTotalResponse is the sum of the caller's debts of one type and status.
type DebtTotalResponse struct {
	Type   models.DebtType   `json:"type"`
	Status models.DebtStatus `json:"status"`
	Total  decimal.Decimal   `json:"total" swaggertype:"number"`
}

// CreateDebt records a debt
// @Summary     Record a debt
// @Description Create a debt given to or received from a person. Status defaults to pending.
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDebtRequest true "Debt details"
// @Success     201 {object} models.Debt "Debt created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Duplicate id"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts [post]
func (h *DebtHandler) CreateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debt, err := h.debtService.CreateDebt(c.Request.Context(), userID, services.DebtInput{
		ID:          req.ID,
		Type:        req.Type,
		Amount:      req.Amount,
		PersonName:  req.PersonName,
		Description: req.Description,
		Date:        date,
		Status:      req.Status,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_DEBT", "debt", debt.ID, c.ClientIP(),
		map[string]interface{}{"type": debt.Type, "amount": debt.Amount.StringFixed(2)})

	c.JSON(http.StatusCreated, gin.H{"debt": debt})
}

// ListDebts returns the caller's debts
// @Summary     List debts
// @Description List debts newest first, optionally filtered by type and status
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       type   query string false "given or received"
// @Param       status query string false "pending, paid or received"
// @Success     200 {array}  models.Debt "Debts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts [get]
func (h *DebtHandler) ListDebts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debts, err := h.debtService.ListDebts(c.Request.Context(), userID, services.DebtFilter{
		Type:   models.DebtType(c.Query("type")),
		Status: models.DebtStatus(c.Query("status")),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debts": debts})
}

// GetDebtTotals sums the caller's debts of one type and status
// @Summary     Total debts
// @Description Sum of debts filtered by type and status; status defaults to pending
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       type   query string true  "given or received"
// @Param       status query string false "pending, paid or received"
// @Success     200 {object} DebtTotalResponse "Total"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/totals [get]
func (h *DebtHandler) GetDebtTotals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtType := models.DebtType(c.Query("type"))
	if !debtType.Valid() {
		respondWithError(c, apperrors.Validation("type must be given or received"))
		return
	}
	status := models.DebtStatus(c.DefaultQuery("status", string(models.DebtStatusPending)))

	total, err := h.balanceService.GetTotalDebts(c.Request.Context(), userID, debtType, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, DebtTotalResponse{Type: debtType, Status: status, Total: total})
}

// UpdateDebt applies a partial update to a debt
// @Summary     Update a debt
// @Description Update the supplied fields only. An id the caller does not own affects zero rows.
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Debt ID"
// @Param       request body UpdateDebtRequest true "Fields to update"
// @Success     200 {object} AffectedResponse "Rows affected"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id} [patch]
func (h *DebtHandler) UpdateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDebtRequest
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
	affected, err := h.debtService.UpdateDebt(c.Request.Context(), userID, id, services.DebtPatch{
		Type:        req.Type,
		Amount:      req.Amount,
		PersonName:  req.PersonName,
		Description: req.Description,
		Date:        date,
		Status:      req.Status,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	if affected > 0 {
		changes := map[string]interface{}{}
		if req.Status != nil {
			changes["status"] = *req.Status
		}
		h.auditService.Log(c.Request.Context(), userID, "UPDATE_DEBT", "debt", id, c.ClientIP(), changes)
	}

	c.JSON(http.StatusOK, AffectedResponse{Affected: affected})
}

// DeleteDebt removes a debt
// @Summary     Delete a debt
// @Description Delete a debt owned by the caller
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Success     200 {object} AffectedResponse "Rows affected"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id} [delete]
func (h *DebtHandler) DeleteDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	affected, err := h.debtService.DeleteDebt(c.Request.Context(), userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if affected > 0 {
		h.auditService.Log(c.Request.Context(), userID, "DELETE_DEBT", "debt", id, c.ClientIP(), nil)
	}

	c.JSON(http.StatusOK, AffectedResponse{Affected: affected})
}
