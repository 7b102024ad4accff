package tasksync

import (
	"context"
	"sync"
	"time"

	"github.com/motivatchi/tchi/internal/api"
	"github.com/motivatchi/tchi/internal/core/task"
)

// TaskOutcome records the two server calls made for one newly overdue task
// during a reconciliation tick. Either call can fail independently.
type TaskOutcome struct {
	ID        int64
	UpdateErr error
	HealthErr error
}

// OK reports whether both calls for the task succeeded.
func (o TaskOutcome) OK() bool {
	return o.UpdateErr == nil && o.HealthErr == nil
}

// TickOutcome is the structured result of one reconciliation tick, so the
// loop owner can log it and tests can assert on it.
type TickOutcome struct {
	Fetched int
	Overdue []TaskOutcome
}

// Run drives the reconciliation loop until ctx is cancelled. Tick failures
// are logged and never surface to the store's user-facing error slot.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			outcome, err := s.Tick(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("reconcile: fetch tasks failed")
				continue
			}
			for _, r := range outcome.Overdue {
				if r.UpdateErr != nil {
					s.log.Error().Err(r.UpdateErr).Int64("task", r.ID).Msg("reconcile: mark overdue failed")
				}
				if r.HealthErr != nil {
					s.log.Error().Err(r.HealthErr).Int64("task", r.ID).Msg("reconcile: health penalty failed")
				}
				if r.OK() {
					s.log.Info().Int64("task", r.ID).Msg("task marked overdue")
				}
			}
		}
	}
}

// Tick runs one reconciliation pass.
//
// It re-fetches the full list from the server (bypassing the cache), finds
// tasks whose deadline has passed and whose status is neither completed nor
// overdue, and for each attempts both a status=overdue PATCH and a pet
// health penalty. Tasks are processed concurrently; one task's failures
// never gate another's. Afterwards the cache is replaced with the fetched
// list, with every selected task forced to display overdue locally. That
// local patch papers over the read-before-write race between this fetch
// and the PATCHes landing server-side; the next tick observes the
// server-side state.
func (s *Store) Tick(ctx context.Context) (TickOutcome, error) {
	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		return TickOutcome{}, err
	}

	today := s.today()
	overdueStatus := task.StatusOverdue

	var expired []task.Task
	for _, t := range tasks {
		if t.Overdue(today) {
			expired = append(expired, t)
		}
	}

	outcomes := make([]TaskOutcome, len(expired))

	var wg sync.WaitGroup
	for i, t := range expired {
		wg.Add(1)
		go func() {
			defer wg.Done()

			out := TaskOutcome{ID: t.ID}
			// Both calls are attempted regardless of the other's result.
			_, out.UpdateErr = s.api.UpdateTask(ctx, t.ID, api.TaskPatch{Status: &overdueStatus})
			_, out.HealthErr = s.api.AdjustPetHealth(ctx, api.ActionTaskMissed)
			outcomes[i] = out
		}()
	}
	wg.Wait()

	expiredIDs := make(map[int64]bool, len(expired))
	for _, t := range expired {
		expiredIDs[t.ID] = true
	}

	fresh := make([]task.Task, len(tasks))
	copy(fresh, tasks)
	for i := range fresh {
		if expiredIDs[fresh[i].ID] {
			fresh[i].Status = task.StatusOverdue
		}
	}

	s.mu.Lock()
	s.tasks = fresh
	s.mu.Unlock()

	return TickOutcome{Fetched: len(tasks), Overdue: outcomes}, nil
}
