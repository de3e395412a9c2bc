package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/services"
)

// SettingsHandler handles per-user settings.
type SettingsHandler struct {
	settingsService services.SettingsServicer
	auditService    services.AuditServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer, auditService services.AuditServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, auditService: auditService}
}

// SaveSettingsRequest carries the settings to store. Omitted fields keep
// their stored value, or the default when nothing was stored yet.
type SaveSettingsRequest struct {
	Currency             *string                   `json:"currency" binding:"omitempty,len=3"`
	Language             *string                   `json:"language" binding:"omitempty,min=1,max=10"`
	CustomCategories     *[]models.CustomCategory  `json:"custom_categories"`
	Accounts             *[]models.SettingsAccount `json:"accounts"`
	AnalyticsPreferences map[string]interface{}    `json:"analytics_preferences"`
}

// GetSettings returns the caller's settings
// @Summary     Get settings
// @Description Stored settings, or the defaults (USD, en, no custom categories or accounts) when none were saved
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.UserSettings "Settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// SaveSettings upserts the caller's settings
// @Summary     Save settings
// @Description Brings the settings table up to date, then inserts or updates the caller's row. POST and PUT behave the same.
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SaveSettingsRequest true "Settings"
// @Success     200 {object} models.UserSettings "Saved settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [post]
// @Router      /settings [put]
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	settings, err := h.settingsService.SaveSettings(c.Request.Context(), userID, services.SettingsInput{
		Currency:             req.Currency,
		Language:             req.Language,
		CustomCategories:     req.CustomCategories,
		Accounts:             req.Accounts,
		AnalyticsPreferences: req.AnalyticsPreferences,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "SAVE_SETTINGS", "user_settings", settings.ID, c.ClientIP(),
		map[string]interface{}{"currency": settings.Currency, "language": settings.Language})

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
