package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/motivatchi/tchi/internal/api"
	"github.com/motivatchi/tchi/internal/core/task"
	"github.com/motivatchi/tchi/internal/core/validate"
)

// AddCmd implements the tchi add command.
type AddCmd struct {
	flags *Flags

	name     string
	category string
	deadline string
	priority string
}

// NewAddCmd creates a new add command.
func NewAddCmd(flags *Flags) *AddCmd {
	return &AddCmd{flags: flags}
}

// Register adds the add command to the application.
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Create a new task",
		UsageText: "tchi add [--name <name>] [--category <category>] [--deadline <YYYY-MM-DD>] [--priority <High|Medium|Low>]",
		Description: `Creates a task. The server assigns the ID and the initial
in_progress status.

When --name is omitted, an interactive form prompts for input.

Names must be unique among active tasks; completed tasks free up
their name.

Examples:
  tchi add --name "Water the plants" --deadline 2026-09-15
  tchi add    # interactive`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "task name",
				Destination: &cmd.name,
			},
			&cli.StringFlag{
				Name:        "category",
				Aliases:     []string{"c"},
				Usage:       "free-text category label",
				Destination: &cmd.category,
			},
			&cli.StringFlag{
				Name:        "deadline",
				Aliases:     []string{"d"},
				Usage:       "deadline as YYYY-MM-DD (defaults to today)",
				Destination: &cmd.deadline,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "High, Medium, or Low",
				Value:       string(task.PriorityMedium),
				Destination: &cmd.priority,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	// The uniqueness check below needs the current active names.
	if err := cmd.flags.Store.Refresh(ctx); err != nil {
		return err
	}

	if cmd.deadline == "" {
		cmd.deadline = task.Today().String()
	}

	if cmd.name == "" {
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	if err := validate.NewTaskFields(cmd.name, cmd.deadline, task.Priority(cmd.priority)); err != nil {
		return err
	}
	if err := validate.UniqueActiveName(cmd.name, cmd.flags.Store.Tasks(), 0); err != nil {
		return err
	}

	deadline, err := task.ParseDate(cmd.deadline)
	if err != nil {
		return err
	}

	created, err := cmd.flags.Store.Create(ctx, api.NewTask{
		Name:     cmd.name,
		Category: cmd.category,
		Deadline: deadline,
		Priority: task.Priority(cmd.priority),
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "created task %d: %s (due %s)\n", created.ID, created.Name, created.Deadline)
	return nil
}

// runForm collects task fields interactively. Validation runs inline so
// the user sees problems before submitting.
func (cmd *AddCmd) runForm() error {
	tasks := cmd.flags.Store.Tasks()

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&cmd.name).
				Validate(func(s string) error {
					if err := validate.TaskName(s); err != nil {
						return err
					}
					return validate.UniqueActiveName(s, tasks, 0)
				}),
			huh.NewInput().
				Title("Category").
				Value(&cmd.category),
			huh.NewInput().
				Title("Deadline").
				Value(&cmd.deadline).
				Validate(func(s string) error {
					_, err := task.ParseDate(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("High", string(task.PriorityHigh)),
					huh.NewOption("Medium", string(task.PriorityMedium)),
					huh.NewOption("Low", string(task.PriorityLow)),
				).
				Value(&cmd.priority),
		),
	).Run()
}
