package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsentry/netsentry/internal/models"
)

func makeAlert(id int64) models.Alert {
	return models.Alert{
		ID:         id,
		SourceIP:   "10.0.0.1",
		ThreatType: "Port Scan",
		Severity:   models.SeverityMedium,
		Status:     models.StatusActive,
	}
}

func TestInsertNew_NewestFirst(t *testing.T) {
	b := New(DefaultCapacity)

	b.InsertNew(makeAlert(1))
	b.InsertNew(makeAlert(2))
	snap := b.InsertNew(makeAlert(3))

	require.Len(t, snap, 3)
	assert.Equal(t, int64(3), snap[0].ID)
	assert.Equal(t, int64(2), snap[1].ID)
	assert.Equal(t, int64(1), snap[2].ID)
}

func TestInsertNew_TrimsToBound(t *testing.T) {
	b := New(50)

	for i := int64(1); i <= 55; i++ {
		b.InsertNew(makeAlert(i))
	}

	snap := b.Snapshot()
	require.Len(t, snap, 50)
	// Newest first, truncated to the 50 most recent.
	assert.Equal(t, int64(55), snap[0].ID)
	assert.Equal(t, int64(6), snap[49].ID)
}

func TestApplyUpdate_UnknownIDIsNoOp(t *testing.T) {
	b := New(50)
	b.InsertNew(makeAlert(1))
	b.InsertNew(makeAlert(2))
	before := b.Snapshot()

	ok := b.ApplyUpdate(makeAlert(99))

	assert.False(t, ok)
	assert.Equal(t, before, b.Snapshot())
	assert.Equal(t, 2, b.Len())
}

func TestApplyUpdate_ReplacesInPlace(t *testing.T) {
	b := New(50)
	b.InsertNew(makeAlert(1))
	b.InsertNew(makeAlert(2))
	b.InsertNew(makeAlert(3))

	updated := makeAlert(2)
	updated.Status = models.StatusInvestigating

	require.True(t, b.ApplyUpdate(updated))

	snap := b.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, int64(3), snap[0].ID)
	assert.Equal(t, int64(2), snap[1].ID)
	assert.Equal(t, models.StatusInvestigating, snap[1].Status)
	assert.Equal(t, int64(1), snap[2].ID)

	// Idempotent: applying the identical update again changes nothing.
	require.True(t, b.ApplyUpdate(updated))
	assert.Equal(t, snap, b.Snapshot())
}

func TestMarkBlocked_OptimisticThenServerWins(t *testing.T) {
	b := New(50)
	b.InsertNew(makeAlert(7))

	require.True(t, b.MarkBlocked(7))
	assert.Equal(t, models.StatusBlocked, b.Snapshot()[0].Status)

	// The next authoritative update overwrites the optimistic value.
	fromServer := makeAlert(7)
	fromServer.Status = models.StatusInvestigating
	require.True(t, b.ApplyUpdate(fromServer))
	assert.Equal(t, models.StatusInvestigating, b.Snapshot()[0].Status)
}

func TestMarkBlocked_UnknownIDIsNoOp(t *testing.T) {
	b := New(50)
	b.InsertNew(makeAlert(1))

	assert.False(t, b.MarkBlocked(42))
	assert.Equal(t, 1, b.Len())
}

func TestSnapshot_IsolatedFromMutation(t *testing.T) {
	b := New(50)
	snap := b.InsertNew(makeAlert(1))

	b.InsertNew(makeAlert(2))
	snap[0].Status = models.StatusBlocked

	fresh := b.Snapshot()
	require.Len(t, fresh, 2)
	assert.Equal(t, models.StatusActive, fresh[1].Status)
}

func TestNew_NonPositiveCapacityFallsBack(t *testing.T) {
	b := New(0)
	for i := int64(1); i <= DefaultCapacity+5; i++ {
		b.InsertNew(makeAlert(i))
	}
	assert.Equal(t, DefaultCapacity, b.Len())
}
