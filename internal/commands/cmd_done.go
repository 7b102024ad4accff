package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// DoneCmd implements the tchi done command.
type DoneCmd struct {
	flags *Flags
}

// NewDoneCmd creates a new done command.
func NewDoneCmd(flags *Flags) *DoneCmd {
	return &DoneCmd{flags: flags}
}

// Register adds the done command to the application.
func (cmd *DoneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "done",
		Aliases:   []string{"complete"},
		Usage:     "Mark a task as completed",
		UsageText: "tchi done <id>",
		Description: `Marks a task as completed and prints the resulting totals:
coins, XP, level, and pet health. Works on overdue tasks too.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *DoneCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	reward, err := cmd.flags.Store.Complete(ctx, id)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "task %d completed · coins %d · xp %d · level %d · health %.0f\n",
		id, reward.Coins, reward.XP, reward.Level, reward.Health)
	return nil
}
