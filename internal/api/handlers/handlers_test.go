package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/netsentry/netsentry/internal/models"
	"github.com/netsentry/netsentry/internal/notify"
	"github.com/netsentry/netsentry/internal/permission"
	"github.com/netsentry/netsentry/internal/pipeline"
	"github.com/netsentry/netsentry/internal/settings"
	"github.com/netsentry/netsentry/internal/stream"
)

type stubSource struct {
	events    chan stream.Event
	closeOnce sync.Once
	closed    chan struct{}
}

func newStubSource() *stubSource {
	return &stubSource{events: make(chan stream.Event, 16), closed: make(chan struct{})}
}

func (s *stubSource) Events() <-chan stream.Event { return s.events }
func (s *stubSource) Connected() bool             { return true }
func (s *stubSource) Close()                      { s.closeOnce.Do(func() { close(s.closed) }) }
func (s *stubSource) Run() error                  { <-s.closed; return nil }

type silentSound struct{}

func (silentSound) Play(models.Severity) {}

type silentVisual struct{}

func (silentVisual) Notify(string, string, bool) error { return nil }

type silentEmail struct{}

func (silentEmail) Send(models.Alert) {}

type fixture struct {
	engine *gin.Engine
	source *stubSource
	pipe   *pipeline.Pipeline
	store  *settings.Store
	gate   *permission.Gate
}

func setup(t *testing.T, upstreamURL string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Setting{}))

	if upstreamURL == "" {
		upstreamURL = "http://127.0.0.1:1"
	}

	f := &fixture{
		source: newStubSource(),
		store:  settings.NewStore(db),
		gate:   permission.NewGate(permission.StaticPrompter(true)),
	}

	router := notify.NewRouter(f.store, f.gate, silentSound{}, silentVisual{}, silentEmail{}, nil)
	f.pipe = pipeline.New(f.source, router, pipeline.NewServerClient(upstreamURL))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.pipe.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	f.engine = gin.New()
	dashboard := NewDashboardHandler(f.pipe)
	settingsHandler := NewSettingsHandler(f.store, f.gate)

	api := f.engine.Group("/api")
	api.GET("/alerts", dashboard.GetAlerts)
	api.GET("/stats", dashboard.GetStats)
	api.GET("/threats", dashboard.GetThreats)
	api.POST("/block-ip", dashboard.BlockIP)
	api.GET("/health", dashboard.Health)
	api.GET("/settings", settingsHandler.GetSettings)
	api.PUT("/settings", settingsHandler.UpdateSettings)
	api.POST("/settings/request-permission", settingsHandler.RequestPermission)

	return f
}

func (f *fixture) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestGetAlerts_ReturnsBufferSnapshot(t *testing.T) {
	f := setup(t, "")

	alert := models.Alert{ID: 11, SourceIP: "198.51.100.4", ThreatType: "Brute Force", Severity: models.SeverityHigh, Status: models.StatusActive}
	f.source.events <- stream.Event{Kind: stream.EventNewAlert, Alert: &alert}
	require.Eventually(t, func() bool { return len(f.pipe.Alerts()) == 1 }, time.Second, 5*time.Millisecond)

	w := f.request(t, http.MethodGet, "/api/alerts", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []models.Alert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(11), got[0].ID)
}

func TestGetStats(t *testing.T) {
	f := setup(t, "")

	stats := models.NetworkStats{TotalPackets: 42, ThreatsDetected: 2}
	f.source.events <- stream.Event{Kind: stream.EventStatsUpdate, Stats: &stats}
	require.Eventually(t, func() bool { return f.pipe.Stats().TotalPackets == 42 }, time.Second, 5*time.Millisecond)

	w := f.request(t, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got models.NetworkStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(2), got.ThreatsDetected)
}

func TestGetThreats_UnavailableBeforeFirstRefresh(t *testing.T) {
	f := setup(t, "")

	w := f.request(t, http.MethodGet, "/api/threats", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBlockIP_FailureIsSurfaced(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	f := setup(t, upstream.URL)
	w := f.request(t, http.MethodPost, "/api/block-ip", `{"ip":"203.0.113.5","alert_id":3}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestBlockIP_ValidatesRequest(t *testing.T) {
	f := setup(t, "")

	w := f.request(t, http.MethodPost, "/api/block-ip", `{"ip":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth_ReportsConnectivity(t *testing.T) {
	f := setup(t, "")

	w := f.request(t, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"connected":true`)
}

func TestSettings_UpdateVisibleImmediately(t *testing.T) {
	f := setup(t, "")

	w := f.request(t, http.MethodPut, "/api/settings", `{"notifications":{"alertSound":false,"criticalOnly":true}}`)
	require.Equal(t, http.StatusOK, w.Code)

	got := f.store.Get()
	assert.False(t, got.AlertSound)
	assert.True(t, got.CriticalOnly)
	assert.True(t, got.EnableNotifications)

	w = f.request(t, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"alertSound":false`)
}

func TestSettings_Theme(t *testing.T) {
	f := setup(t, "")

	w := f.request(t, http.MethodPut, "/api/settings", `{"theme":"dark","timezone":"UTC"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dark", f.store.Theme())
	assert.Equal(t, "UTC", f.store.Timezone())
}

func TestRequestPermission_FromUserIntent(t *testing.T) {
	f := setup(t, "")
	require.Equal(t, permission.StateDefault, f.gate.CurrentState())

	w := f.request(t, http.MethodPost, "/api/settings/request-permission", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"granted":true`)
	assert.Equal(t, permission.StateGranted, f.gate.CurrentState())
}
