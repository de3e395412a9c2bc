package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/services"
)

// DatabaseHandler exposes schema maintenance and ledger reconciliation to
// operators.
type DatabaseHandler struct {
	maintenanceService services.MaintenanceServicer
	auditService       services.AuditServicer
}

// NewDatabaseHandler creates a new DatabaseHandler.
func NewDatabaseHandler(maintenanceService services.MaintenanceServicer, auditService services.AuditServicer) *DatabaseHandler {
	return &DatabaseHandler{maintenanceService: maintenanceService, auditService: auditService}
}

// MigrateSettingsResponse lists the live settings columns after migration.
type MigrateSettingsResponse struct {
	Message string   `json:"message"`
	Columns []string `json:"columns"`
}

// CreateTables ensures every table exists
// @Summary     Create tables
// @Description Create any missing table, index or settings column. Safe to repeat.
// @Tags        database
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Tables ensured"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /database/create-tables [post]
func (h *DatabaseHandler) CreateTables(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.maintenanceService.CreateTables(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_TABLES", "schema", "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "tables ensured"})
}

// MigrateSettings ensures every settings column exists
// @Summary     Migrate settings
// @Description Add any missing user_settings column. Safe to repeat.
// @Tags        database
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MigrateSettingsResponse "Settings columns"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /database/migrate-settings [post]
func (h *DatabaseHandler) MigrateSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	columns, err := h.maintenanceService.MigrateSettings(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "MIGRATE_SETTINGS", "schema", "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, MigrateSettingsResponse{Message: "settings columns ensured", Columns: columns})
}

// Reconcile repairs the caller's ledger mirrors
// @Summary     Reconcile ledger
// @Description Insert missing mirrors, realign drifted ones and count ledger rows without an entry
// @Tags        database
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.ReconcileReport "Reconciliation report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /database/reconcile [post]
func (h *DatabaseHandler) Reconcile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.maintenanceService.Reconcile(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "RECONCILE", "account_transaction", "", c.ClientIP(),
		map[string]interface{}{
			"mirrors_created":    report.MirrorsCreated,
			"mirrors_realigned":  report.MirrorsRealigned,
			"orphan_ledger_rows": report.OrphanLedgerRows,
		})

	c.JSON(http.StatusOK, report)
}
