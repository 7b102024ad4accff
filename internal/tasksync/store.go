// Package tasksync holds the session-wide task cache and the operations
// that keep it aligned with the remote API.
//
// The server owns the task collection; the Store is a best-effort mirror.
// Consumers read snapshots via Tasks and mutate only through the exposed
// operations. There is no ordering guarantee across concurrent operations
// beyond last-response-wins on the shared cache.
package tasksync

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/motivatchi/tchi/internal/api"
	"github.com/motivatchi/tchi/internal/core/task"
)

// TaskAPI is the remote API surface the store depends on.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
	CreateTask(ctx context.Context, nt api.NewTask) (task.Task, error)
	UpdateTask(ctx context.Context, id int64, patch api.TaskPatch) (task.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	CompleteTask(ctx context.Context, id int64) (task.Reward, error)
	MarkIncomplete(ctx context.Context, id int64) (task.Reward, error)
	AdjustPetHealth(ctx context.Context, action string) (float64, error)
}

var _ TaskAPI = (*api.Client)(nil)

// Store is the in-memory task cache plus its synchronizing operations.
// Construct one at startup and pass it by handle; it has no global state.
type Store struct {
	api TaskAPI
	log zerolog.Logger

	mu      sync.RWMutex
	tasks   []task.Task
	lastErr string

	// today is swapped in tests to pin the reconciler's calendar day.
	today func() task.Date
}

// NewStore creates a Store backed by the given API.
func NewStore(client TaskAPI, log zerolog.Logger) *Store {
	return &Store{
		api:   client,
		log:   log.With().Str("component", "tasksync").Logger(),
		today: task.Today,
	}
}

// Tasks returns a snapshot copy of the cached task list.
func (s *Store) Tasks() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the cached task with the given ID.
func (s *Store) Get(id int64) (task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return task.Task{}, task.ErrNotFound
}

// LastError returns the most recent user-facing failure message, or "".
// It is a single shared slot: each failure overwrites it, each success
// clears it.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Refresh replaces the cache wholesale with the server's task list.
// On failure the previous cache is left untouched.
func (s *Store) Refresh(ctx context.Context) error {
	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		return s.fail("fetch tasks", err)
	}

	s.mu.Lock()
	s.tasks = tasks
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// Create sends a creation request and appends the server-canonical task to
// the cache. The whole list is deliberately not re-fetched.
func (s *Store) Create(ctx context.Context, nt api.NewTask) (task.Task, error) {
	created, err := s.api.CreateTask(ctx, nt)
	if err != nil {
		return task.Task{}, s.fail("create task", err)
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, created)
	s.lastErr = ""
	s.mu.Unlock()
	return created, nil
}

// Update sends a partial update carrying all mutable fields and replaces
// the matching cache entry with the server-returned record.
func (s *Store) Update(ctx context.Context, t task.Task) (task.Task, error) {
	patch := api.TaskPatch{
		Name:     &t.Name,
		Category: &t.Category,
		Deadline: &t.Deadline,
		Priority: &t.Priority,
		Status:   &t.Status,
	}

	updated, err := s.api.UpdateTask(ctx, t.ID, patch)
	if err != nil {
		return task.Task{}, s.fail("update task", err)
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == updated.ID {
			s.tasks[i] = updated
			break
		}
	}
	s.lastErr = ""
	s.mu.Unlock()
	return updated, nil
}

// Delete removes the task server-side, then from the cache.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return s.fail("delete task", err)
	}

	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// Complete marks the task completed server-side and optimistically flips
// only the cached status, keeping every other cached field. The reward is
// returned to the caller; a failed call changes nothing and returns a zero
// reward.
func (s *Store) Complete(ctx context.Context, id int64) (task.Reward, error) {
	reward, err := s.api.CompleteTask(ctx, id)
	if err != nil {
		return task.Reward{}, s.fail("mark task as complete", err)
	}

	s.setStatus(id, task.StatusCompleted)
	return reward, nil
}

// MarkIncomplete is the reverse transition: server call, local status flip
// to in_progress, penalty payload returned.
func (s *Store) MarkIncomplete(ctx context.Context, id int64) (task.Reward, error) {
	penalty, err := s.api.MarkIncomplete(ctx, id)
	if err != nil {
		return task.Reward{}, s.fail("mark task as incomplete", err)
	}

	s.setStatus(id, task.StatusInProgress)
	return penalty, nil
}

func (s *Store) setStatus(id int64, status task.Status) {
	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Status = status
			break
		}
	}
	s.lastErr = ""
	s.mu.Unlock()
}

// fail logs the failure, records the shared user-facing message, and
// returns the wrapped error. API failures get an operation-specific
// message; transport failures get a generic one.
func (s *Store) fail(op string, err error) error {
	msg := "An unexpected error occurred. Please try again."
	if api.IsStatusError(err) {
		msg = fmt.Sprintf("Failed to %s. Please try again.", op)
	}

	s.log.Error().Err(err).Str("op", op).Msg("operation failed")

	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
	return fmt.Errorf("%s: %w", op, err)
}
