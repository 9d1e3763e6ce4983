package system

import (
	"fmt"

	"github.com/peptalk/peptalk-cli/internal/cli"
)

// InitCmd initializes storage with default settings.
type InitCmd struct {
	Force bool `help:"Reinitialize even if storage already exists."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Init(); err != nil {
		if !c.Force {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
	}
	fmt.Printf("peptalk storage ready at %s\n", ctx.Store.GetConfigPath())
	return nil
}
