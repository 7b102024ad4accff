package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/motivatchi/tchi/internal/tui"
)

// TuiCmd implements the tchi tui command.
type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command.
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Register adds the tui command to the application.
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Aliases:   []string{"board"},
		Usage:     "Open the interactive task board",
		UsageText: "tchi tui",
		Description: `Opens the task board. While the board is open, a background
loop reconciles overdue tasks on the configured interval
(sync.interval, default 5s).`,
		Action: cmd.Run,
	})

	return app
}

// Run starts the board. It is exported so the root command can fall
// through to it when no subcommand is given.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go cmd.flags.Store.Run(ctx, cmd.flags.Config.Sync.Interval)

	model := tui.New(cmd.flags.Store, cmd.flags.Client, cmd.flags.Config.TUI.PetRefresh)

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
