package calendar

import (
	"fmt"

	"github.com/peptalk/peptalk-cli/internal/cli"
	"github.com/peptalk/peptalk-cli/internal/keyring"
)

// DisconnectCmd removes the stored token bundle for a provider and
// marks it disconnected. Always succeeds from the user's perspective.
type DisconnectCmd struct {
	Provider string `help:"Calendar provider to disconnect." enum:"google,apple" default:"google"`
}

func (c *DisconnectCmd) Run(ctx *cli.Context) error {
	keyring.ClearTokens(c.Provider)

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	markConnected(&settings, c.Provider, false)
	settings.CalendarIntegrationEnabled = settings.GoogleCalendarConnected || settings.AppleCalendarConnected
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	fmt.Printf("%s calendar disconnected.\n", c.Provider)
	return nil
}
