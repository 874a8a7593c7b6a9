package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/netsentry/netsentry/internal/models"
	"github.com/netsentry/netsentry/internal/permission"
	"github.com/netsentry/netsentry/internal/settings"
)

// SettingsHandler exposes the notification configuration and the permission
// lifecycle to the settings UI.
type SettingsHandler struct {
	Store *settings.Store
	Gate  *permission.Gate
}

func NewSettingsHandler(store *settings.Store, gate *permission.Gate) *SettingsHandler {
	return &SettingsHandler{Store: store, Gate: gate}
}

// GetSettings returns the effective notification settings plus appearance
// preferences.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.Store.Get(),
		"theme":         h.Store.Theme(),
		"timezone":      h.Store.Timezone(),
		"permission":    h.Gate.CurrentState(),
	})
}

type updateSettingsRequest struct {
	Notifications *models.SettingsPatch `json:"notifications"`
	Theme         *string               `json:"theme"`
	Timezone      *string               `json:"timezone"`
}

// UpdateSettings merges a partial update and persists it; the response
// carries the new effective settings.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current := h.Store.Get()
	if req.Notifications != nil {
		merged, err := h.Store.Update(*req.Notifications)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
			return
		}
		current = merged
	}
	if req.Theme != nil {
		if err := h.Store.SetTheme(*req.Theme); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save theme"})
			return
		}
	}
	if req.Timezone != nil {
		if err := h.Store.SetTimezone(*req.Timezone); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save timezone"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": current,
		"theme":         h.Store.Theme(),
		"timezone":      h.Store.Timezone(),
	})
}

// RequestPermission resolves the visual-notification permission. It is only
// reachable from an explicit user action in the settings UI, per the
// platform constraint on prompting.
func (h *SettingsHandler) RequestPermission(c *gin.Context) {
	granted := h.Gate.RequestPermission(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"granted": granted,
		"state":   h.Gate.CurrentState(),
	})
}
