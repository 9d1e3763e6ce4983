package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/peptalk/peptalk-cli/internal/cli"
	"github.com/peptalk/peptalk-cli/internal/constants"
	"github.com/peptalk/peptalk-cli/internal/models"
	"github.com/peptalk/peptalk-cli/internal/scheduler"
	"github.com/peptalk/peptalk-cli/internal/validation"
)

var nowFunc = time.Now

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Frequency            *string `help:"Notification frequency: daily, twice_daily, or custom." enum:"daily,twice_daily,custom,"`
	AddTime              *string `help:"Add a custom notification time (HH:MM). Switches frequency to custom."`
	RemoveTime           *string `help:"Remove a custom notification time (HH:MM)."`
	NotificationsEnabled *bool   `help:"Enable or disable all notifications."`
	CalendarIntegration  *bool   `help:"Enable or disable calendar-linked reminders."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		printSettings(settings)
		return nil
	}

	updated := false

	if c.Frequency != nil {
		next, err := ApplyFrequencyChange(settings, constants.NotificationFrequency(*c.Frequency), ctx.Scheduler)
		if err != nil {
			return err
		}
		settings = next
		updated = true
	}

	if c.AddTime != nil {
		next, err := addCustomTime(settings, *c.AddTime, ctx.Scheduler)
		if err != nil {
			return err
		}
		settings = next
		updated = true
	}

	if c.RemoveTime != nil {
		if settings.NotificationFrequency != constants.FrequencyCustom {
			return fmt.Errorf("custom times can only be removed while frequency is custom")
		}
		settings.CustomTimes = cli.RemoveTime(settings.CustomTimes, *c.RemoveTime)
		updated = true
	}

	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.CalendarIntegration != nil {
		settings.CalendarIntegrationEnabled = *c.CalendarIntegration
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if result := validation.ValidateSettings(settings); result.HasConflicts() {
		return fmt.Errorf("refusing to save settings:\n%s", result.FormatReport())
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	trigger, err := ctx.Scheduler.NextTrigger(settings.CustomTimes, nowFunc())
	if err == nil && settings.NotificationsEnabled {
		fmt.Printf("Settings updated. Next pep talk at %s.\n", trigger)
	} else {
		fmt.Println("Settings updated.")
	}
	return nil
}

// ApplyFrequencyChange switches the notification frequency, preserving
// the custom selection: leaving custom snapshots the current list so a
// later return restores it exactly.
func ApplyFrequencyChange(settings models.Settings, frequency constants.NotificationFrequency, sched *scheduler.Scheduler) (models.Settings, error) {
	if !validation.ValidFrequency(frequency) {
		return settings, fmt.Errorf("unknown notification frequency %q", frequency)
	}

	if settings.NotificationFrequency == constants.FrequencyCustom && frequency != constants.FrequencyCustom {
		settings.SavedCustomTimes = append([]string{}, settings.CustomTimes...)
	}

	times, err := sched.ResolveTimes(frequency, settings.CustomTimes, settings.SavedCustomTimes)
	if err != nil {
		return settings, err
	}

	settings.NotificationFrequency = frequency
	settings.CustomTimes = times
	return settings, nil
}

func addCustomTime(settings models.Settings, timeStr string, sched *scheduler.Scheduler) (models.Settings, error) {
	if !validation.ValidTime(timeStr) {
		return settings, fmt.Errorf("%q is not a valid HH:MM time", timeStr)
	}

	if settings.NotificationFrequency != constants.FrequencyCustom {
		next, err := ApplyFrequencyChange(settings, constants.FrequencyCustom, sched)
		if err != nil {
			return settings, err
		}
		settings = next
	}

	if len(settings.CustomTimes) >= constants.MaxCustomTimes {
		return settings, fmt.Errorf("maximum %d notifications per day", constants.MaxCustomTimes)
	}

	settings.CustomTimes = cli.InsertTimeSorted(settings.CustomTimes, timeStr)
	return settings, nil
}

func printSettings(settings models.Settings) {
	fmt.Println("Current Settings:")
	fmt.Printf("  Frequency:             %s\n", settings.NotificationFrequency)
	fmt.Printf("  Notification Times:    %s\n", strings.Join(settings.CustomTimes, ", "))
	if len(settings.SavedCustomTimes) > 0 {
		fmt.Printf("  Saved Custom Times:    %s\n", strings.Join(settings.SavedCustomTimes, ", "))
	}
	fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
	fmt.Println("\nCalendar Settings:")
	fmt.Printf("  Integration Enabled:   %v\n", settings.CalendarIntegrationEnabled)
	fmt.Printf("  Google Connected:      %v\n", settings.GoogleCalendarConnected)
	fmt.Printf("  Apple Connected:       %v\n", settings.AppleCalendarConnected)
}
