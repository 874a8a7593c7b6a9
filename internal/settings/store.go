// Package settings is the single source of truth for user-facing client
// configuration. Reads are served from memory; every mutation is written
// through to the settings table before the call returns.
package settings

import (
	"encoding/json"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/netsentry/netsentry/internal/logger"
	"github.com/netsentry/netsentry/internal/models"
)

const (
	notificationSettingsKey = "notification_settings"
	themeKey                = "theme"
	timezoneKey             = "timezone"
)

// Store holds the in-memory settings and the backing database.
type Store struct {
	mu      sync.RWMutex
	db      *gorm.DB
	current models.NotificationSettings
}

// NewStore creates a store and loads persisted settings, falling back to the
// documented defaults when the blob is absent or malformed. It never fails
// the caller.
func NewStore(db *gorm.DB) *Store {
	s := &Store{db: db, current: models.DefaultNotificationSettings()}
	s.Load()
	return s
}

// Load re-reads the persisted notification settings blob into memory and
// returns the effective settings.
func (s *Store) Load() models.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	var row models.Setting
	err := s.db.First(&row, "key = ?", notificationSettingsKey).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.WithComponent("settings").WithError(err).Warn("failed to load settings, using defaults")
		}
		s.current = models.DefaultNotificationSettings()
		return s.current
	}

	var loaded models.NotificationSettings
	if err := json.Unmarshal([]byte(row.Value), &loaded); err != nil {
		logger.WithComponent("settings").WithError(err).Warn("malformed settings blob, using defaults")
		s.current = models.DefaultNotificationSettings()
		return s.current
	}

	s.current = loaded
	return s.current
}

// Get returns the current in-memory settings without touching storage.
func (s *Store) Get() models.NotificationSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update merges the patch into the current settings, persists the full merged
// result and returns it. The new value is visible to the next Get before
// Update returns; there is no staleness window.
func (s *Store) Update(patch models.SettingsPatch) (models.NotificationSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := patch.Apply(s.current)
	s.current = merged

	blob, err := json.Marshal(merged)
	if err != nil {
		return merged, fmt.Errorf("encode settings: %w", err)
	}
	if err := s.upsert(notificationSettingsKey, string(blob), "json", "notifications"); err != nil {
		return merged, err
	}

	return merged, nil
}

// Theme returns the persisted theme preference, empty when unset.
func (s *Store) Theme() string {
	return s.value(themeKey)
}

// SetTheme persists the theme preference.
func (s *Store) SetTheme(theme string) error {
	return s.upsert(themeKey, theme, "string", "appearance")
}

// Timezone returns the persisted timezone preference, empty when unset.
func (s *Store) Timezone() string {
	return s.value(timezoneKey)
}

// SetTimezone persists the timezone preference.
func (s *Store) SetTimezone(tz string) error {
	return s.upsert(timezoneKey, tz, "string", "appearance")
}

func (s *Store) value(key string) string {
	var row models.Setting
	if err := s.db.First(&row, "key = ?", key).Error; err != nil {
		return ""
	}
	return row.Value
}

func (s *Store) upsert(key, value, typ, category string) error {
	setting := models.Setting{Key: key, Value: value, Type: typ, Category: category}
	err := s.db.Where(models.Setting{Key: key}).Assign(setting).FirstOrCreate(&setting).Error
	if err != nil {
		return fmt.Errorf("persist setting %s: %w", key, err)
	}
	return nil
}
