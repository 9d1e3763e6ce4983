package models

import (
	"fmt"
	"strings"

	"github.com/peptalk/peptalk-cli/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingNotificationFrequency:
			settings.NotificationFrequency = constants.NotificationFrequency(value)
		case constants.SettingCustomTimes:
			settings.CustomTimes = splitTimes(value)
		case constants.SettingSavedCustomTimes:
			settings.SavedCustomTimes = splitTimes(value)
		case constants.SettingCalendarIntegrationEnabled:
			settings.CalendarIntegrationEnabled = value == "true"
		case constants.SettingGoogleCalendarConnected:
			settings.GoogleCalendarConnected = value == "true"
		case constants.SettingAppleCalendarConnected:
			settings.AppleCalendarConnected = value == "true"
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingNotificationFrequency:      string(settings.NotificationFrequency),
		constants.SettingCustomTimes:                strings.Join(settings.CustomTimes, ","),
		constants.SettingSavedCustomTimes:           strings.Join(settings.SavedCustomTimes, ","),
		constants.SettingCalendarIntegrationEnabled: fmt.Sprintf("%v", settings.CalendarIntegrationEnabled),
		constants.SettingGoogleCalendarConnected:    fmt.Sprintf("%v", settings.GoogleCalendarConnected),
		constants.SettingAppleCalendarConnected:     fmt.Sprintf("%v", settings.AppleCalendarConnected),
		constants.SettingNotificationsEnabled:       fmt.Sprintf("%v", settings.NotificationsEnabled),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.NotificationFrequency == "" {
		settings.NotificationFrequency = constants.DefaultFrequency
	}
	if len(settings.CustomTimes) == 0 {
		settings.CustomTimes = []string{constants.DailyTime}
	}
}

// DefaultSettings returns the settings record created on first load.
func DefaultSettings() Settings {
	return Settings{
		NotificationFrequency: constants.DefaultFrequency,
		CustomTimes:           []string{constants.DailyTime},
		NotificationsEnabled:  constants.DefaultNotificationsEnabled,
	}
}

func splitTimes(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	times := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			times = append(times, p)
		}
	}
	return times
}
