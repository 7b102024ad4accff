package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// SyncCmd implements the tchi sync command.
type SyncCmd struct {
	flags *Flags
}

// NewSyncCmd creates a new sync command.
func NewSyncCmd(flags *Flags) *SyncCmd {
	return &SyncCmd{flags: flags}
}

// Register adds the sync command to the application.
func (cmd *SyncCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "sync",
		Usage:     "Run one reconciliation pass",
		UsageText: "tchi sync",
		Description: `Fetches the task list and marks every past-deadline task as
overdue, applying the pet health penalty once per task. This is
the same pass the TUI runs in the background on an interval.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *SyncCmd) run(ctx context.Context, c *cli.Command) error {
	outcome, err := cmd.flags.Store.Tick(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	w := c.Root().Writer
	_, _ = fmt.Fprintf(w, "fetched %d tasks, %d newly overdue\n", outcome.Fetched, len(outcome.Overdue))

	for _, r := range outcome.Overdue {
		switch {
		case r.OK():
			_, _ = fmt.Fprintf(w, "  task %d marked overdue\n", r.ID)
		default:
			if r.UpdateErr != nil {
				_, _ = fmt.Fprintf(w, "  task %d: mark overdue failed: %v\n", r.ID, r.UpdateErr)
			}
			if r.HealthErr != nil {
				_, _ = fmt.Fprintf(w, "  task %d: health penalty failed: %v\n", r.ID, r.HealthErr)
			}
		}
	}
	return nil
}
