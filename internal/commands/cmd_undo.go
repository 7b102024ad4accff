package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// UndoCmd implements the tchi undo command.
type UndoCmd struct {
	flags *Flags
}

// NewUndoCmd creates a new undo command.
func NewUndoCmd(flags *Flags) *UndoCmd {
	return &UndoCmd{flags: flags}
}

// Register adds the undo command to the application.
func (cmd *UndoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "undo",
		Aliases:   []string{"incomplete"},
		Usage:     "Mark a completed task as in progress again",
		UsageText: "tchi undo <id>",
		Description: `Reverts a completed task to in_progress. The server claws back
the task's reward; the printed totals reflect the deduction.
Only completed tasks can be reverted.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *UndoCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	totals, err := cmd.flags.Store.MarkIncomplete(ctx, id)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "task %d back in progress · coins %d · xp %d · level %d · health %.0f\n",
		id, totals.Coins, totals.XP, totals.Level, totals.Health)
	return nil
}
