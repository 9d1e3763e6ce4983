package system

import (
	"fmt"
	"time"

	"github.com/peptalk/peptalk-cli/internal/cli"
)

// NextCmd prints the next upcoming notification time, the way the
// quote screen displays it.
type NextCmd struct{}

func (c *NextCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if !settings.NotificationsEnabled {
		fmt.Println("Notifications are disabled.")
		return nil
	}

	trigger, err := ctx.Scheduler.NextTrigger(settings.CustomTimes, time.Now())
	if err != nil {
		return fmt.Errorf("failed to compute next notification: %w", err)
	}

	fmt.Printf("Next pep talk: %s\n", trigger)
	return nil
}
