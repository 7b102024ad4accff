package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// PetCmd implements the tchi pet command.
type PetCmd struct {
	flags *Flags
}

// NewPetCmd creates a new pet command.
func NewPetCmd(flags *Flags) *PetCmd {
	return &PetCmd{flags: flags}
}

// Register adds the pet command to the application.
func (cmd *PetCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "pet",
		Usage:     "Show the pet's current health",
		UsageText: "tchi pet",
		Description: `Prints the pet's health on its 0-5 scale. Health rises when
tasks are completed and falls when tasks go overdue.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *PetCmd) run(ctx context.Context, c *cli.Command) error {
	health, err := cmd.flags.Client.PetHealth(ctx)
	if err != nil {
		return fmt.Errorf("fetch pet health: %w", err)
	}

	full := min(int(health), 5)
	if full < 0 {
		full = 0
	}
	hearts := strings.Repeat("♥", full) + strings.Repeat("♡", 5-full)

	_, _ = fmt.Fprintf(c.Root().Writer, "%s  %.0f/5\n", hearts, health)
	return nil
}
