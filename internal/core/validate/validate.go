// Package validate provides shared validation for task input boundaries.
//
// Name uniqueness is deliberately enforced here, at the add/edit boundary,
// and not inside the sync store: the server accepts duplicates and the
// store mirrors whatever the server returns.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/motivatchi/tchi/internal/core/task"
)

// TaskName validates a task name is non-empty after trimming whitespace.
func TaskName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// TaskNameField returns a criterio field error for invalid task names.
func TaskNameField(field, name string) error {
	return criterio.Run(field, name, TaskName)
}

// PriorityField validates the priority is one of High, Medium, Low.
func PriorityField(field string, p task.Priority) error {
	return criterio.Run(field, p, func(p task.Priority) error {
		if !p.IsValid() {
			return fmt.Errorf("must be one of High, Medium, Low")
		}
		return nil
	})
}

// StatusField validates the status is a known lifecycle state.
func StatusField(field string, s task.Status) error {
	return criterio.Run(field, s, func(s task.Status) error {
		if !s.IsValid() {
			return fmt.Errorf("must be one of in_progress, completed, overdue")
		}
		return nil
	})
}

// DeadlineField validates a YYYY-MM-DD deadline string.
func DeadlineField(field, s string) error {
	return criterio.Run(field, s, func(s string) error {
		_, err := task.ParseDate(s)
		return err
	})
}

// UniqueActiveName checks name against the active tasks in the given list,
// case-insensitively. excludeID skips the task being edited (0 for adds).
func UniqueActiveName(name string, tasks []task.Task, excludeID int64) error {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for _, t := range tasks {
		if t.ID == excludeID || !t.Status.Active() {
			continue
		}
		if strings.ToLower(t.Name) == lowered {
			return fmt.Errorf("an active task named %q already exists", t.Name)
		}
	}
	return nil
}

// NewTaskFields validates all user-supplied fields of a new task.
func NewTaskFields(name, deadline string, priority task.Priority) error {
	return criterio.ValidateStruct(
		TaskNameField("name", name),
		DeadlineField("deadline", deadline),
		PriorityField("priority", priority),
	)
}
