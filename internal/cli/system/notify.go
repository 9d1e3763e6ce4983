package system

import (
	"fmt"

	"github.com/peptalk/peptalk-cli/internal/cli"
	"github.com/peptalk/peptalk-cli/internal/models"
	"github.com/peptalk/peptalk-cli/internal/storage"
)

// NotifyCmd sends a single notification through the tray app. With no
// flags it sends a test notification; with --current it sends the
// stored current quote.
type NotifyCmd struct {
	Current bool `help:"Send the current quote instead of a test message."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if !c.Current {
		return ctx.Notifier.Notify("Test Notification", "This is a test notification from PepTalk Buddy!")
	}

	quote, err := ctx.Store.GetCurrentQuote()
	if err == storage.ErrNoQuote {
		quote = models.Quote{Text: "Every day is a new beginning.", Author: "Unknown"}
	} else if err != nil {
		return fmt.Errorf("failed to load current quote: %w", err)
	}
	return ctx.Notifier.NotifyQuote(quote)
}
