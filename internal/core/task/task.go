// Package task defines the task domain model shared by the sync store,
// the API client, and the UI surfaces.
package task

import "errors"

// ErrNotFound is returned when a task ID has no matching entry.
var ErrNotFound = errors.New("task not found")

// Status represents the lifecycle state of a task.
//
// Transitions: in_progress -> completed (complete, rewards),
// completed -> in_progress (mark incomplete, penalties),
// in_progress -> overdue (reconciler, health penalty),
// overdue -> completed / in_progress (same user transitions).
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOverdue    Status = "overdue"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// Active reports whether the status counts toward the unique-name rule.
// Completed tasks free up their name.
func (s Status) Active() bool {
	return s == StatusInProgress || s == StatusOverdue
}

// Priority determines the reward granted when a task is completed.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Task is a single user-owned unit of work. The server owns the canonical
// record; instances held client-side are cache entries.
type Task struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Deadline Date     `json:"deadline"`
	Priority Priority `json:"priority"`
	Status   Status   `json:"status"`
}

// Overdue reports whether the task's deadline is strictly before today
// and its status still calls for attention. Completed and already-overdue
// tasks are never newly overdue.
func (t Task) Overdue(today Date) bool {
	if t.Status == StatusCompleted || t.Status == StatusOverdue {
		return false
	}
	return t.Deadline.Before(today)
}

// Reward is the gamification payload returned by the server when a task is
// completed or marked incomplete. On penalties the deltas are negative.
type Reward struct {
	Coins  int     `json:"coins"`
	XP     int     `json:"xp"`
	Level  int     `json:"level"`
	Health float64 `json:"health"`
}
