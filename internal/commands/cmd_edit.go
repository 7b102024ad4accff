package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/motivatchi/tchi/internal/core/task"
	"github.com/motivatchi/tchi/internal/core/validate"
)

// EditCmd implements the tchi edit command.
type EditCmd struct {
	flags *Flags

	name     string
	category string
	deadline string
	priority string
}

// NewEditCmd creates a new edit command.
func NewEditCmd(flags *Flags) *EditCmd {
	return &EditCmd{flags: flags}
}

// Register adds the edit command to the application.
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Edit an existing task",
		UsageText: "tchi edit <id> [--name <name>] [--category <category>] [--deadline <YYYY-MM-DD>] [--priority <High|Medium|Low>]",
		Description: `Edits a task's fields. Fields not given as flags keep their
current value. With no flags at all, an interactive form opens
prefilled with the task's current values.

Status cannot be edited here; use done/undo for that.

Examples:
  tchi edit 4 --deadline 2026-10-01
  tchi edit 4    # interactive`,
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
				Usage:       "deadline as YYYY-MM-DD",
				Destination: &cmd.deadline,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "High, Medium, or Low",
				Destination: &cmd.priority,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	if err := cmd.flags.Store.Refresh(ctx); err != nil {
		return err
	}

	current, err := cmd.flags.Store.Get(id)
	if err != nil {
		return fmt.Errorf("task %d: %w", id, err)
	}

	interactive := cmd.name == "" && cmd.category == "" && cmd.deadline == "" && cmd.priority == ""

	// Flags override; everything else keeps the current value.
	if cmd.name == "" {
		cmd.name = current.Name
	}
	if cmd.category == "" {
		cmd.category = current.Category
	}
	if cmd.deadline == "" {
		cmd.deadline = current.Deadline.String()
	}
	if cmd.priority == "" {
		cmd.priority = string(current.Priority)
	}

	if interactive {
		if err := cmd.runForm(current.ID); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	if err := validate.NewTaskFields(cmd.name, cmd.deadline, task.Priority(cmd.priority)); err != nil {
		return err
	}
	if err := validate.UniqueActiveName(cmd.name, cmd.flags.Store.Tasks(), current.ID); err != nil {
		return err
	}

	deadline, err := task.ParseDate(cmd.deadline)
	if err != nil {
		return err
	}

	current.Name = cmd.name
	current.Category = cmd.category
	current.Deadline = deadline
	current.Priority = task.Priority(cmd.priority)

	updated, err := cmd.flags.Store.Update(ctx, current)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "updated task %d: %s (due %s)\n", updated.ID, updated.Name, updated.Deadline)
	return nil
}

func (cmd *EditCmd) runForm(id int64) error {
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
					return validate.UniqueActiveName(s, tasks, id)
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

// parseTaskID reads the single positional <id> argument.
func parseTaskID(c *cli.Command) (int64, error) {
	arg := c.Args().First()
	if arg == "" {
		return 0, errors.New("missing required argument: <id>")
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: %w", arg, err)
	}
	return id, nil
}
