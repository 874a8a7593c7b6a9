package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsentry/netsentry/internal/models"
)

func TestEmailRelay_PostsAlertJSON(t *testing.T) {
	var got models.Alert
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/send-email-alert", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	relay := NewEmailRelay(srv.URL)
	alert := criticalAlert()
	require.NoError(t, relay.send(alert))

	assert.Equal(t, alert.ID, got.ID)
	assert.Equal(t, alert.Severity, got.Severity)
	assert.Equal(t, alert.SourceIP, got.SourceIP)
}

func TestEmailRelay_ErrorStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	relay := NewEmailRelay(srv.URL)
	assert.Error(t, relay.send(mediumAlert()))
}

func TestEmailRelay_SendIsFireAndForget(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	relay := NewEmailRelay(srv.URL)
	relay.Send(mediumAlert())

	assert.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestEmailRelay_UnreachableRelayNeverPanics(t *testing.T) {
	relay := NewEmailRelay("http://127.0.0.1:1")
	relay.Send(mediumAlert())
	assert.Error(t, relay.send(mediumAlert()))
}
