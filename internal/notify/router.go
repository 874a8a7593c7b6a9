// Package notify fans incoming alerts out to the configured sinks: the
// audible tone, the platform visual notification, the server email relay and
// any external providers. The router is the single decision point; each sink
// is failure-isolated and a fault in one never blocks the others.
package notify

import (
	"context"
	"fmt"

	"github.com/netsentry/netsentry/internal/logger"
	"github.com/netsentry/netsentry/internal/metrics"
	"github.com/netsentry/netsentry/internal/models"
	"github.com/netsentry/netsentry/internal/permission"
	"github.com/netsentry/netsentry/internal/settings"
)

// SoundPlayer plays the severity-pitched cue.
type SoundPlayer interface {
	Play(severity models.Severity)
}

// VisualNotifier shows a platform notification.
type VisualNotifier interface {
	Notify(title, body string, critical bool) error
}

// EmailSender relays an alert to the outbound email endpoint.
type EmailSender interface {
	Send(alert models.Alert)
}

// ExternalSender fans an alert out to configured external providers.
type ExternalSender interface {
	Send(alert models.Alert)
}

// Router translates "alert arrived" into zero or more sink actions based on
// the current settings and permission state. It owns no global state; all
// collaborators are injected at construction.
type Router struct {
	settings *settings.Store
	gate     *permission.Gate
	sound    SoundPlayer
	visual   VisualNotifier
	email    EmailSender
	external ExternalSender
}

// NewRouter wires the router to its collaborators. The external sender may
// be nil when no provider fan-out is configured.
func NewRouter(store *settings.Store, gate *permission.Gate, sound SoundPlayer, visual VisualNotifier, email EmailSender, external ExternalSender) *Router {
	return &Router{
		settings: store,
		gate:     gate,
		sound:    sound,
		visual:   visual,
		email:    email,
		external: external,
	}
}

// HandleAlert runs the routing decision for one alert. Sinks fire
// independently; the email relay and the visual path are dispatched without
// awaiting, so a slow sink never delays the pipeline.
func (r *Router) HandleAlert(alert models.Alert) {
	cfg := r.settings.Get()

	if !cfg.EnableNotifications && !cfg.EmailAlerts && !cfg.AlertSound {
		return
	}

	// The sound is a global cue: it is not subject to the critical-only
	// filter, which applies to the visual notification only.
	if cfg.AlertSound {
		r.sound.Play(alert.Severity)
		metrics.IncNotificationSent("sound")
	}

	if cfg.EnableNotifications {
		if !cfg.CriticalOnly || alert.Severity == models.SeverityCritical {
			r.dispatchVisual(alert)
		}
	}

	if cfg.EmailAlerts {
		r.email.Send(alert)
	}

	if r.external != nil {
		r.external.Send(alert)
	}
}

// dispatchVisual resolves permission and shows the notification off the
// pipeline path. A pending prompt may take arbitrarily long; a denied state
// is skipped silently.
func (r *Router) dispatchVisual(alert models.Alert) {
	if r.gate.CurrentState() == permission.StateDenied {
		return
	}

	title := fmt.Sprintf("%s Threat Detected", alert.Severity)
	body := fmt.Sprintf("%s from %s\n%s", alert.ThreatType, alert.SourceIP, alert.Description)
	critical := alert.Severity == models.SeverityCritical

	go func() {
		if !r.gate.RequestPermission(context.Background()) {
			return
		}
		if err := r.visual.Notify(title, body, critical); err != nil {
			logger.WithComponent("notify").WithError(err).Warn("visual notification failed")
			metrics.IncNotificationFailed("visual")
			return
		}
		metrics.IncNotificationSent("visual")
	}()
}
