// Package buffer holds the bounded, newest-first view of recent alerts that
// the dashboard renders. It is the single authoritative copy; readers only
// ever see snapshots.
package buffer

import (
	"sync"

	"github.com/netsentry/netsentry/internal/metrics"
	"github.com/netsentry/netsentry/internal/models"
)

// DefaultCapacity bounds the buffer to the 50 most recent alerts.
const DefaultCapacity = 50

// AlertBuffer is a capacity-bounded ordered sequence of alerts, newest first.
type AlertBuffer struct {
	mu       sync.RWMutex
	capacity int
	alerts   []models.Alert
}

// New returns a buffer bounded to the given capacity. Non-positive values
// fall back to DefaultCapacity.
func New(capacity int) *AlertBuffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &AlertBuffer{capacity: capacity}
}

// InsertNew prepends the alert and trims the tail back to the bound. It
// returns a fresh snapshot; callers holding earlier snapshots are unaffected.
func (b *AlertBuffer) InsertNew(alert models.Alert) []models.Alert {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := make([]models.Alert, 0, len(b.alerts)+1)
	next = append(next, alert)
	next = append(next, b.alerts...)
	for len(next) > b.capacity {
		next = next[:len(next)-1]
		metrics.IncBufferEviction()
	}
	b.alerts = next

	return b.snapshotLocked()
}

// ApplyUpdate replaces the entry matching the alert's ID in place, preserving
// its position. Updates for unknown IDs are stale and dropped; the method
// reports whether a replacement happened.
func (b *AlertBuffer) ApplyUpdate(alert models.Alert) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.alerts {
		if b.alerts[i].ID == alert.ID {
			b.alerts[i] = alert
			return true
		}
	}
	return false
}

// MarkBlocked applies the client-optimistic Blocked status to the entry with
// the given ID ahead of server confirmation. The next authoritative update
// for the same ID overwrites it. Unknown IDs are a no-op.
func (b *AlertBuffer) MarkBlocked(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.alerts {
		if b.alerts[i].ID == id {
			b.alerts[i].Status = models.StatusBlocked
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current contents, newest first.
func (b *AlertBuffer) Snapshot() []models.Alert {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked()
}

// Len returns the current number of buffered alerts.
func (b *AlertBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.alerts)
}

func (b *AlertBuffer) snapshotLocked() []models.Alert {
	out := make([]models.Alert, len(b.alerts))
	copy(out, b.alerts)
	return out
}
