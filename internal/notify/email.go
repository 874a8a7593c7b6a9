package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/netsentry/netsentry/internal/logger"
	"github.com/netsentry/netsentry/internal/metrics"
	"github.com/netsentry/netsentry/internal/models"
)

// EmailRelay posts alerts to the server's outbound email endpoint. Sends are
// fire-and-forget: they are never awaited by the alert-processing path and
// are not cancelled by dashboard teardown.
type EmailRelay struct {
	baseURL string
	client  *http.Client
}

// NewEmailRelay creates a relay for the given server base URL.
func NewEmailRelay(baseURL string) *EmailRelay {
	return &EmailRelay{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Send dispatches the alert as a detached task. Failures are logged and
// counted, never surfaced to the caller.
func (r *EmailRelay) Send(alert models.Alert) {
	go func() {
		if err := r.send(alert); err != nil {
			logger.WithComponent("notify").WithError(err).Warn("email relay failed")
			metrics.IncNotificationFailed("email")
			return
		}
		metrics.IncNotificationSent("email")
	}()
}

func (r *EmailRelay) send(alert models.Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	resp, err := r.client.Post(r.baseURL+"/api/send-email-alert", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post email alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("email relay returned status: %d", resp.StatusCode)
	}
	return nil
}
