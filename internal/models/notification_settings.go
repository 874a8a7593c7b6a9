package models

// NotificationSettings is the user-facing notification configuration. It is
// persisted as a single JSON blob and held in memory as the source of truth.
type NotificationSettings struct {
	EnableNotifications bool `json:"enableNotifications"`
	EmailAlerts         bool `json:"emailAlerts"`
	CriticalOnly        bool `json:"criticalOnly"`
	AlertSound          bool `json:"alertSound"`
}

// DefaultNotificationSettings returns the documented defaults: everything on
// except the critical-only filter.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		EnableNotifications: true,
		EmailAlerts:         true,
		CriticalOnly:        false,
		AlertSound:          true,
	}
}

// SettingsPatch is a partial update; nil fields are left unchanged.
type SettingsPatch struct {
	EnableNotifications *bool `json:"enableNotifications"`
	EmailAlerts         *bool `json:"emailAlerts"`
	CriticalOnly        *bool `json:"criticalOnly"`
	AlertSound          *bool `json:"alertSound"`
}

// Apply merges the patch into s and returns the result.
func (p SettingsPatch) Apply(s NotificationSettings) NotificationSettings {
	if p.EnableNotifications != nil {
		s.EnableNotifications = *p.EnableNotifications
	}
	if p.EmailAlerts != nil {
		s.EmailAlerts = *p.EmailAlerts
	}
	if p.CriticalOnly != nil {
		s.CriticalOnly = *p.CriticalOnly
	}
	if p.AlertSound != nil {
		s.AlertSound = *p.AlertSound
	}
	return s
}
