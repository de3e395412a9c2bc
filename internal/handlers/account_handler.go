package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/aggregate"
	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/pagination"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/services"
)

// AccountHandler serves the unified ledger and the balance figures derived from it.
type AccountHandler struct {
	ledgerService  services.LedgerServicer
	balanceService services.BalanceServicer
	auditService   services.AuditServicer
	now            func() time.Time
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledgerService services.LedgerServicer, balanceService services.BalanceServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{
		ledgerService:  ledgerService,
		balanceService: balanceService,
		auditService:   auditService,
		now:            time.Now,
	}
}

// BalanceResponse is the ledger balance with pending debts folded in.
// FormattedBalance always carries two decimals.
type BalanceResponse struct {
	aggregate.Summary
	FormattedBalance string `json:"formatted_balance"`
}

// MonthlyTotalResponse is the sum of one kind of entry over a calendar month.
type MonthlyTotalResponse struct {
	Kind  aggregate.Kind  `json:"kind"`
	Month int             `json:"month"`
	Year  int             `json:"year"`
	Total decimal.Decimal `json:"total" swaggertype:"number"`
}

// CreateLedgerTransactionRequest represents a row written straight to the unified ledger
type CreateLedgerTransactionRequest struct {
	ID          string             `json:"id" binding:"omitempty,uuid"`
	Type        models.LedgerType  `json:"type" binding:"required,ledger_type"`
	Amount      decimal.Decimal    `json:"amount" swaggertype:"number" binding:"required,gt=0"`
	Name        string             `json:"name" binding:"required,max=255"`
	Category    string             `json:"category" binding:"max=100"`
	Date        string             `json:"date" binding:"required"`
	AccountType models.AccountType `json:"account_type" binding:"omitempty,account_type"`
	Note        string             `json:"note" binding:"max=1000"`
}

// GetBalance returns the caller's balance
// @Summary     Get account balance
// @Description Income minus expenses over the unified ledger, plus pending debts and the debt-adjusted balance
// @Tags        account
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} BalanceResponse "Balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /account/balance [get]
func (h *AccountHandler) GetBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.balanceService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{
		Summary:          *summary,
		FormattedBalance: summary.Balance.Balance.StringFixed(2),
	})
}

// GetMonthlyTotal sums income or expenses over one month
// @Summary     Monthly total
// @Description Sum of income or expense entries dated within the month; defaults to the current month
// @Tags        account
// @Produce     json
// @Security    BearerAuth
// @Param       kind  query string false "income or expense (default expense)"
// @Param       month query int    false "Month 1-12"
// @Param       year  query int    false "Year"
// @Success     200 {object} MonthlyTotalResponse "Total"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /account/monthly [get]
func (h *AccountHandler) GetMonthlyTotal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := h.now().UTC()
	kind := aggregate.Kind(c.DefaultQuery("kind", string(aggregate.KindExpense)))
	month, err := intQuery(c, "month", int(now.Month()))
	if err != nil {
		respondWithError(c, err)
		return
	}
	year, err := intQuery(c, "year", now.Year())
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.balanceService.GetMonthlyTotal(c.Request.Context(), userID, kind, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthlyTotalResponse{Kind: kind, Month: month, Year: year, Total: total})
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.Validation(key + " must be an integer")
	}
	return n, nil
}

// ListTransactions returns one page of the unified ledger
// @Summary     List ledger transactions
// @Description Paginated unified ledger, newest first
// @Tags        account
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       type      query string false "income or expense"
// @Success     200 {object} pagination.PageResponse[models.AccountTransaction] "Paginated ledger"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /account/transactions [get]
func (h *AccountHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.ledgerService.ListTransactions(c.Request.Context(), userID, models.LedgerType(c.Query("type")), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateTransaction writes a ledger row and the matching income or expense entry
// @Summary     Create a ledger transaction
// @Description Write a row to the unified ledger, then an income or expense entry with the same id
// @Tags        account
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateLedgerTransactionRequest true "Transaction details"
// @Success     201 {object} models.AccountTransaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Duplicate id"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /account/transactions [post]
func (h *AccountHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateLedgerTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	row, err := h.ledgerService.CreateTransaction(c.Request.Context(), userID, services.LedgerInput{
		ID:          req.ID,
		Type:        req.Type,
		Amount:      req.Amount,
		Name:        req.Name,
		Category:    req.Category,
		Date:        date,
		AccountType: req.AccountType,
		Note:        req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_TRANSACTION", "account_transaction", row.ID, c.ClientIP(),
		map[string]interface{}{"type": row.Type, "amount": row.Amount.StringFixed(2)})

	c.JSON(http.StatusCreated, gin.H{"transaction": row})
}

// DeleteTransaction removes a ledger row and the entry sharing its id
// @Summary     Delete a ledger transaction
// @Description Delete a ledger row; the income or expense entry with the same id is deleted as well
// @Tags        account
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} AffectedResponse "Rows affected"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /account/transactions/{id} [delete]
func (h *AccountHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	affected, err := h.ledgerService.DeleteTransaction(c.Request.Context(), userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if affected > 0 {
		h.auditService.Log(c.Request.Context(), userID, "DELETE_TRANSACTION", "account_transaction", id, c.ClientIP(), nil)
	}

	c.JSON(http.StatusOK, AffectedResponse{Affected: affected})
}
