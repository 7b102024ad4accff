package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"

	"github.com/motivatchi/tchi/internal/core/task"
)

// LsCmd implements the tchi ls command.
type LsCmd struct {
	flags *Flags

	status string
	match  string
	asJSON bool
}

// NewLsCmd creates a new ls command.
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application.
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Aliases:   []string{"list"},
		Usage:     "List tasks",
		UsageText: "tchi ls [--status <status>] [--match <glob>] [--json]",
		Description: `Fetches the task list and prints it.

Examples:
  tchi ls
  tchi ls --status overdue
  tchi ls --match 'Work/*'     # glob matched against category/name
  tchi ls --json               # one JSON object per line`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "filter by status (in_progress, completed, overdue)",
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "match",
				Aliases:     []string{"m"},
				Usage:       "glob pattern matched against category/name",
				Destination: &cmd.match,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print tasks as JSON lines",
				Destination: &cmd.asJSON,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.status != "" && !task.Status(cmd.status).IsValid() {
		return fmt.Errorf("invalid status %q: must be one of in_progress, completed, overdue", cmd.status)
	}
	if cmd.match != "" {
		if !doublestar.ValidatePattern(cmd.match) {
			return fmt.Errorf("invalid glob pattern %q", cmd.match)
		}
	}

	if err := cmd.flags.Store.Refresh(ctx); err != nil {
		return err
	}

	var out []task.Task
	for _, t := range cmd.flags.Store.Tasks() {
		if cmd.status != "" && t.Status != task.Status(cmd.status) {
			continue
		}
		if cmd.match != "" && !cmd.matches(t) {
			continue
		}
		out = append(out, t)
	}

	if cmd.asJSON {
		enc := json.NewEncoder(c.Root().Writer)
		for _, t := range out {
			if err := enc.Encode(t); err != nil {
				return err
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRIORITY\tDEADLINE\tSTATUS")
	for _, t := range out {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Name, t.Category, t.Priority, t.Deadline, t.Status)
	}
	return w.Flush()
}

// matches checks the glob against "category/name" and against the bare
// name, so simple patterns work without a category prefix.
func (cmd *LsCmd) matches(t task.Task) bool {
	if ok, _ := doublestar.Match(cmd.match, t.Category+"/"+t.Name); ok {
		return true
	}
	ok, _ := doublestar.Match(cmd.match, t.Name)
	return ok
}
