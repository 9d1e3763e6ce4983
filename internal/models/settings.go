package models

import "github.com/peptalk/peptalk-cli/internal/constants"

// Settings represents application-wide settings
type Settings struct {
	NotificationFrequency      constants.NotificationFrequency `json:"notification_frequency"`       // daily, twice_daily, or custom
	CustomTimes                []string                        `json:"custom_times"`                 // active trigger times, HH:MM, at most 3
	SavedCustomTimes           []string                        `json:"saved_custom_times,omitempty"` // custom selection preserved while another frequency is active
	CalendarIntegrationEnabled bool                            `json:"calendar_integration_enabled"` // whether calendar-linked reminders are on
	GoogleCalendarConnected    bool                            `json:"google_calendar_connected"`    // whether a Google token bundle is stored
	AppleCalendarConnected     bool                            `json:"apple_calendar_connected"`     // Apple is a stub provider, never set by a flow
	NotificationsEnabled       bool                            `json:"notifications_enabled"`        // master switch for all notifications
}
