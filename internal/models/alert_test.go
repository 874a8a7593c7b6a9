package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_Ordering(t *testing.T) {
	assert.Less(t, SeverityLow.Rank(), SeverityMedium.Rank())
	assert.Less(t, SeverityMedium.Rank(), SeverityHigh.Rank())
	assert.Less(t, SeverityHigh.Rank(), SeverityCritical.Rank())
	assert.Zero(t, Severity("Bogus").Rank())
}

func TestSeverity_Valid(t *testing.T) {
	assert.True(t, SeverityCritical.Valid())
	assert.False(t, Severity("").Valid())
}

func TestAlert_DecodesServerPayload(t *testing.T) {
	payload := `{
		"id": 42,
		"timestamp": "2025-11-02T10:30:00Z",
		"source_ip": "203.0.113.9",
		"destination_ip": "10.0.0.5",
		"threat_type": "SQL Injection",
		"severity": "Critical",
		"status": "Active",
		"description": "Suspicious query pattern",
		"port": 443,
		"protocol": "TCP"
	}`

	var alert Alert
	require.NoError(t, json.Unmarshal([]byte(payload), &alert))

	assert.Equal(t, int64(42), alert.ID)
	assert.Equal(t, SeverityCritical, alert.Severity)
	assert.Equal(t, StatusActive, alert.Status)
	assert.Equal(t, 443, alert.Port)
	assert.Equal(t, 2025, alert.Timestamp.Year())
}

func TestSettingsPatch_Apply(t *testing.T) {
	off := false
	got := SettingsPatch{AlertSound: &off}.Apply(DefaultNotificationSettings())

	assert.False(t, got.AlertSound)
	assert.True(t, got.EnableNotifications)
	assert.True(t, got.EmailAlerts)
	assert.False(t, got.CriticalOnly)
}
