package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	rewardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	healthStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("204"))

	statusStyles = map[string]lipgloss.Style{
		"in_progress": lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		"completed":   lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		"overdue":     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}

	priorityStyles = map[string]lipgloss.Style{
		"High":   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		"Medium": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"Low":    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)
