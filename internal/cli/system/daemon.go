package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peptalk/peptalk-cli/internal/cli"
	"github.com/peptalk/peptalk-cli/internal/logger"
)

// daemonIdle paces the loop while there is nothing to schedule and
// separates consecutive triggers.
var daemonIdle = time.Minute

// DaemonCmd runs the notification loop: sleep until the next trigger,
// fetch a fresh quote, store it, notify, repeat. This is the CLI
// stand-in for the host platform's scheduled-notification subsystem.
type DaemonCmd struct{}

func (c *DaemonCmd) Run(appCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, "peptalk daemon started, press Ctrl-C to stop")

	return c.run(ctx, appCtx)
}

func (c *DaemonCmd) run(ctx context.Context, appCtx *cli.Context) error {
	for {
		settings, err := appCtx.Store.GetSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		if !settings.NotificationsEnabled {
			logger.Info("Notifications disabled, daemon idling")
			if !sleepCtx(ctx, daemonIdle) {
				return nil
			}
			continue
		}

		now := time.Now()
		at, err := appCtx.Scheduler.NextTriggerAt(settings.CustomTimes, now)
		if err != nil {
			// An empty custom schedule is legal; wait for times to show up.
			logger.Info("No usable notification times, daemon idling", "error", err)
			if !sleepCtx(ctx, daemonIdle) {
				return nil
			}
			continue
		}

		logger.Info("Sleeping until next trigger", "at", at.Format(time.RFC3339))
		if !sleepCtx(ctx, at.Sub(now)) {
			return nil
		}

		// Re-read settings: they may have changed while sleeping and
		// the master switch wins over an already-computed trigger.
		settings, err = appCtx.Store.GetSettings()
		if err != nil || !settings.NotificationsEnabled {
			continue
		}

		quote := appCtx.Fetcher.Fetch(ctx)
		if err := appCtx.Store.SetCurrentQuote(quote); err != nil {
			logger.Warn("Failed to save current quote", "error", err)
		}
		if err := appCtx.Store.AddQuoteToHistory(quote); err != nil {
			logger.Warn("Failed to record quote history", "error", err)
		}

		if err := appCtx.Notifier.NotifyQuote(quote); err != nil {
			logger.Warn("Failed to deliver notification", "error", err)
		} else {
			logger.Info("Pep talk delivered", "author", quote.Author)
		}

		// Avoid double-firing within the trigger minute.
		if !sleepCtx(ctx, daemonIdle) {
			return nil
		}
	}
}

// sleepCtx sleeps for d, returning false when ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
