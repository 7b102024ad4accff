// Package tui implements the interactive task board. It is a consumer of
// the sync store: every mutation goes through store operations, and the
// visible list is always a store snapshot.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/motivatchi/tchi/internal/core/task"
	"github.com/motivatchi/tchi/internal/tasksync"
)

// PetReader is the read-only pet surface the board polls for display.
type PetReader interface {
	PetHealth(ctx context.Context) (float64, error)
}

type view int

const (
	viewList view = iota
	viewConfirmDelete
	viewHelp
)

type (
	// syncedMsg is sent after any store operation; the board re-snapshots.
	syncedMsg struct{}
	// rewardMsg carries the payload from a complete/incomplete transition.
	rewardMsg struct{ reward task.Reward }
	// petMsg carries a fresh pet health reading.
	petMsg struct{ health float64 }
	// snapshotTickMsg re-reads the cache so reconciler changes show up.
	snapshotTickMsg struct{}
	// petTickMsg schedules the next pet health poll.
	petTickMsg struct{}
)

// Model is the top-level bubbletea model.
type Model struct {
	store *tasksync.Store
	pet   PetReader

	petRefresh time.Duration

	keys      keyMap
	tasks     []task.Task
	cursor    int
	view      view
	width     int
	height    int
	petHealth float64
	reward    *task.Reward
	help      string

	deleteID   int64
	deleteName string
}

// New creates the board model.
func New(store *tasksync.Store, pet PetReader, petRefresh time.Duration) *Model {
	return &Model{store: store, pet: pet, petRefresh: petRefresh, keys: defaultKeyMap(), petHealth: -1}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.petCmd(), snapshotTick())
}

func snapshotTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return snapshotTickMsg{} })
}

func (m *Model) petTick() tea.Cmd {
	return tea.Tick(m.petRefresh, func(time.Time) tea.Msg { return petTickMsg{} })
}

func (m *Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		_ = m.store.Refresh(context.Background())
		return syncedMsg{}
	}
}

// petCmd is the pages' pet-health display poll: a plain read, not part of
// the synchronization core.
func (m *Model) petCmd() tea.Cmd {
	return func() tea.Msg {
		health, err := m.pet.PetHealth(context.Background())
		if err != nil {
			return petMsg{health: -1}
		}
		return petMsg{health: health}
	}
}

func (m *Model) completeCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		reward, err := m.store.Complete(context.Background(), id)
		if err != nil {
			return syncedMsg{}
		}
		return rewardMsg{reward: reward}
	}
}

func (m *Model) incompleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		penalty, err := m.store.MarkIncomplete(context.Background(), id)
		if err != nil {
			return syncedMsg{}
		}
		return rewardMsg{reward: penalty}
	}
}

func (m *Model) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		_ = m.store.Delete(context.Background(), id)
		return syncedMsg{}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case syncedMsg:
		m.snapshot()
		return m, nil
	case rewardMsg:
		m.reward = &msg.reward
		m.petHealth = msg.reward.Health
		m.snapshot()
		return m, nil
	case petMsg:
		if msg.health >= 0 {
			m.petHealth = msg.health
		}
		return m, m.petTick()
	case petTickMsg:
		return m, m.petCmd()
	case snapshotTickMsg:
		m.snapshot()
		return m, snapshotTick()
	}
	return m, nil
}

// snapshot re-reads the store cache and clamps the cursor.
func (m *Model) snapshot() {
	m.tasks = m.store.Tasks()
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.view {
	case viewConfirmDelete:
		switch msg.String() {
		case "y", "Y":
			m.view = viewList
			return m, m.deleteCmd(m.deleteID)
		default:
			m.view = viewList
		}
		return m, nil

	case viewHelp:
		m.view = viewList
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.Complete):
		if t, ok := m.selected(); ok && t.Status != task.StatusCompleted {
			return m, m.completeCmd(t.ID)
		}
	case key.Matches(msg, m.keys.Undo):
		if t, ok := m.selected(); ok && t.Status == task.StatusCompleted {
			return m, m.incompleteCmd(t.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.deleteID = t.ID
			m.deleteName = t.Name
			m.view = viewConfirmDelete
		}
	case key.Matches(msg, m.keys.Help):
		if m.help == "" {
			m.help = renderHelp(max(m.width, 40))
		}
		m.view = viewHelp
	}
	return m, nil
}

func (m *Model) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.view {
	case viewHelp:
		return m.help
	case viewConfirmDelete:
		return fmt.Sprintf("\n  Delete %q? (y/N)\n", m.deleteName)
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Motivatchi"))
	b.WriteString("  ")
	b.WriteString(m.petLine())
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(dimStyle.Render("  No tasks. Add one with: tchi add"))
		b.WriteString("\n")
	}

	for i, t := range m.tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(cursor + m.taskLine(t) + "\n")
	}

	if m.reward != nil {
		b.WriteString("\n" + rewardStyle.Render(fmt.Sprintf(
			"  coins %d · xp %d · level %d", m.reward.Coins, m.reward.XP, m.reward.Level)))
		b.WriteString("\n")
	}

	if errMsg := m.store.LastError(); errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("  "+errMsg) + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("  "+m.keys.footer()) + "\n")

	return b.String()
}

func (m *Model) petLine() string {
	if m.petHealth < 0 {
		return dimStyle.Render("pet: …")
	}

	full := min(int(m.petHealth), 5)
	hearts := strings.Repeat("♥", full) + strings.Repeat("♡", 5-full)
	return healthStyle.Render(hearts)
}

func (m *Model) taskLine(t task.Task) string {
	status, ok := statusStyles[string(t.Status)]
	if !ok {
		status = dimStyle
	}
	priority, ok := priorityStyles[string(t.Priority)]
	if !ok {
		priority = dimStyle
	}

	mark := "[ ]"
	switch t.Status {
	case task.StatusCompleted:
		mark = "[x]"
	case task.StatusOverdue:
		mark = "[!]"
	}

	parts := []string{
		status.Render(mark),
		t.Name,
		priority.Render(string(t.Priority)),
		dimStyle.Render(t.Deadline.String()),
	}
	if t.Category != "" {
		parts = append(parts, dimStyle.Render("#"+t.Category))
	}

	return strings.Join(parts, "  ")
}
