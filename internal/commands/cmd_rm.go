package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// RmCmd implements the tchi rm command.
type RmCmd struct {
	flags *Flags
}

// NewRmCmd creates a new rm command.
func NewRmCmd(flags *Flags) *RmCmd {
	return &RmCmd{flags: flags}
}

// Register adds the rm command to the application.
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Aliases:   []string{"remove"},
		Usage:     "Delete a task",
		UsageText: "tchi rm <id>",
		Description: `Deletes a task permanently. Deleting a task has no effect on
coins, XP, or pet health.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	if err := cmd.flags.Store.Delete(ctx, id); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "deleted task %d\n", id)
	return nil
}
