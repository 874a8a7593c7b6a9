package notify

import (
	"fmt"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/netsentry/netsentry/internal/logger"
	"github.com/netsentry/netsentry/internal/metrics"
	"github.com/netsentry/netsentry/internal/models"
)

// ExternalNotifier fans alerts out to the enabled notification providers
// (discord, slack, gotify and friends) via their shoutrrr URLs.
type ExternalNotifier struct {
	db *gorm.DB
}

// NewExternalNotifier creates the provider fan-out.
func NewExternalNotifier(db *gorm.DB) *ExternalNotifier {
	return &ExternalNotifier{db: db}
}

// Send delivers the alert to every enabled provider. Each delivery runs as a
// detached task; a slow or failing provider never blocks the pipeline or its
// sibling providers.
func (n *ExternalNotifier) Send(alert models.Alert) {
	var providers []models.NotificationProvider
	if err := n.db.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.WithComponent("notify").WithError(err).Warn("failed to fetch notification providers")
		return
	}

	title := fmt.Sprintf("%s Threat Detected", alert.Severity)
	msg := fmt.Sprintf("%s\n\n%s from %s\n%s", title, alert.ThreatType, alert.SourceIP, alert.Description)

	for _, provider := range providers {
		if provider.CriticalOnly && alert.Severity != models.SeverityCritical {
			continue
		}

		go func(p models.NotificationProvider) {
			if err := shoutrrr.Send(p.URL, msg); err != nil {
				logger.WithComponent("notify").WithFields(map[string]interface{}{
					"provider": p.Name,
				}).WithError(err).Warn("failed to send external notification")
				metrics.IncNotificationFailed("external")
				return
			}
			metrics.IncNotificationSent("external")
		}(provider)
	}
}
