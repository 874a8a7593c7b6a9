package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/netsentry/netsentry/internal/models"
)

// ServerClient talks to the detection server's request/response API.
type ServerClient struct {
	baseURL string
	client  *http.Client
}

// NewServerClient creates a client for the given server base URL.
func NewServerClient(baseURL string) *ServerClient {
	return &ServerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type blockRequest struct {
	IP      string `json:"ip"`
	AlertID int64  `json:"alert_id"`
}

// BlockIP asks the server to block the source address of an alert.
func (c *ServerClient) BlockIP(ctx context.Context, ip string, alertID int64) error {
	body, err := json.Marshal(blockRequest{IP: ip, AlertID: alertID})
	if err != nil {
		return fmt.Errorf("encode block request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/block-ip", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create block request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("block ip: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("block ip returned status: %d", resp.StatusCode)
	}
	return nil
}

// FetchThreatData retrieves the charting analytics snapshot.
func (c *ServerClient) FetchThreatData(ctx context.Context) (*models.ThreatData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/threats", nil)
	if err != nil {
		return nil, fmt.Errorf("create threats request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch threats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch threats returned status: %d", resp.StatusCode)
	}

	var data models.ThreatData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode threats: %w", err)
	}
	return &data, nil
}
