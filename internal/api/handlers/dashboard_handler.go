package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/netsentry/netsentry/internal/pipeline"
)

// DashboardHandler serves the read model the UI renders: buffered alerts,
// the latest stats snapshot and the cached threat analytics.
type DashboardHandler struct {
	Pipeline *pipeline.Pipeline
}

func NewDashboardHandler(p *pipeline.Pipeline) *DashboardHandler {
	return &DashboardHandler{Pipeline: p}
}

// GetAlerts returns a snapshot of the buffered alerts, newest first.
func (h *DashboardHandler) GetAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, h.Pipeline.Alerts())
}

// GetStats returns the latest pushed network stats.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Pipeline.Stats())
}

// GetThreats returns the cached analytics snapshot.
func (h *DashboardHandler) GetThreats(c *gin.Context) {
	data := h.Pipeline.ThreatData()
	if data == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "threat analytics not available yet"})
		return
	}
	c.JSON(http.StatusOK, data)
}

type blockIPRequest struct {
	IP      string `json:"ip" binding:"required"`
	AlertID int64  `json:"alert_id" binding:"required"`
}

// BlockIP performs the manual block action against the detection server. A
// failure is surfaced to the user; the optimistic status flip only happens
// on success.
func (h *DashboardHandler) BlockIP(c *gin.Context) {
	var req blockIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Pipeline.BlockIP(c.Request.Context(), req.IP, req.AlertID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to block IP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "blocked", "ip": req.IP})
}

// Health reports liveness and push-channel connectivity.
func (h *DashboardHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"connected": h.Pipeline.Connected(),
	})
}
