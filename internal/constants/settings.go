package constants

const (
	// Settings keys
	SettingNotificationFrequency      = "notification_frequency"
	SettingCustomTimes                = "custom_times"
	SettingSavedCustomTimes           = "saved_custom_times"
	SettingCalendarIntegrationEnabled = "calendar_integration_enabled"
	SettingGoogleCalendarConnected    = "google_calendar_connected"
	SettingAppleCalendarConnected     = "apple_calendar_connected"
	SettingNotificationsEnabled       = "notifications_enabled"

	// Default settings values
	DefaultFrequency            = FrequencyDaily
	DefaultNotificationsEnabled = true

	// Canonical trigger times per frequency
	DailyTime         = "12:00"
	TwiceDailyFirst   = "12:00"
	TwiceDailySecond  = "18:00"
	DefaultCustomTime = "09:00"
)
