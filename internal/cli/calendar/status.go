package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/peptalk/peptalk-cli/internal/cli"
	"github.com/peptalk/peptalk-cli/internal/constants"
	"github.com/peptalk/peptalk-cli/internal/keyring"
)

// StatusCmd reports the calendar connection state per provider.
type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	fmt.Printf("Calendar integration: %s\n", onOff(settings.CalendarIntegrationEnabled))

	for _, provider := range []string{constants.ProviderGoogle, constants.ProviderApple} {
		bundle, err := keyring.Tokens(provider)
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Printf("  %-8s not connected\n", provider)
			continue
		}
		if err != nil {
			fmt.Printf("  %-8s unknown (%v)\n", provider, err)
			continue
		}

		expiry := time.UnixMilli(bundle.ExpiresAt)
		state := "valid"
		if time.Now().After(expiry) {
			state = "expired, will refresh on next use"
		}
		fmt.Printf("  %-8s connected (access token %s, expires %s)\n",
			provider, state, expiry.Format("2006-01-02 15:04"))
	}
	return nil
}

func onOff(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}
