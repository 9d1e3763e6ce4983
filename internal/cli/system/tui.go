package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/peptalk/peptalk-cli/internal/cli"
	"github.com/peptalk/peptalk-cli/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Scheduler, ctx.Fetcher), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interface: %w", err)
	}
	return nil
}
