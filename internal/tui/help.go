package tui

import "github.com/charmbracelet/glamour"

const helpMarkdown = `# tchi

## Keys

| Key | Action |
|-----|--------|
| j / down | move down |
| k / up | move up |
| c | complete the selected task |
| u | mark the selected task incomplete |
| d | delete the selected task (confirm with y) |
| r | refresh from the server |
| ? | toggle this help |
| q | quit |

Overdue tasks are detected in the background: anything past its deadline
is relabelled and your pet loses a heart.
`

// renderHelp renders the help overlay. Falls back to the raw markdown if
// the renderer cannot be constructed.
func renderHelp(width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}

	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
