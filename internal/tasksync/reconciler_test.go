package tasksync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motivatchi/tchi/internal/api"
	"github.com/motivatchi/tchi/internal/core/task"
)

// serverState is a minimal stateful fake: list reflects prior updates, so
// consecutive ticks observe the server-side effects of earlier ones.
type serverState struct {
	mu    sync.Mutex
	tasks map[int64]task.Task
	order []int64

	failUpdate map[int64]error
	failHealth error
}

func newServerState(tasks ...task.Task) *serverState {
	st := &serverState{tasks: map[int64]task.Task{}, failUpdate: map[int64]error{}}
	for _, t := range tasks {
		st.tasks[t.ID] = t
		st.order = append(st.order, t.ID)
	}
	return st
}

func (st *serverState) bind(f *fakeAPI) {
	f.listFn = func(context.Context) ([]task.Task, error) {
		st.mu.Lock()
		defer st.mu.Unlock()
		out := make([]task.Task, 0, len(st.order))
		for _, id := range st.order {
			out = append(out, st.tasks[id])
		}
		return out, nil
	}
	f.updateFn = func(_ context.Context, id int64, patch api.TaskPatch) (task.Task, error) {
		st.mu.Lock()
		defer st.mu.Unlock()
		if err := st.failUpdate[id]; err != nil {
			return task.Task{}, err
		}
		t := st.tasks[id]
		if patch.Status != nil {
			t.Status = *patch.Status
		}
		st.tasks[id] = t
		return t, nil
	}
	f.healthFn = func(_ context.Context, action string) (float64, error) {
		if st.failHealth != nil {
			return 0, st.failHealth
		}
		return 4, nil
	}
}

func pinnedToday() task.Date {
	return task.NewDate(2025, time.June, 15)
}

func yesterday() task.Date { return task.NewDate(2025, time.June, 14) }
func nextMonth() task.Date { return task.NewDate(2025, time.July, 15) }
func longPast() task.Date  { return task.NewDate(2020, time.January, 1) }

// Covers the overdue scenario: a past-deadline in_progress task ends up
// overdue in the cache with exactly one health-decrement call.
func TestTick_MarksExpiredTasksOverdue(t *testing.T) {
	st := newServerState(
		task.Task{ID: 5, Name: "Old", Deadline: longPast(), Priority: task.PriorityLow, Status: task.StatusInProgress},
		task.Task{ID: 6, Name: "Fresh", Deadline: nextMonth(), Priority: task.PriorityLow, Status: task.StatusInProgress},
	)
	f := &fakeAPI{}
	st.bind(f)

	s := newStoreWith(t, f, nil)
	s.today = pinnedToday

	outcome, err := s.Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Fetched)
	require.Len(t, outcome.Overdue, 1)
	assert.Equal(t, int64(5), outcome.Overdue[0].ID)
	assert.True(t, outcome.Overdue[0].OK())

	require.Equal(t, []string{api.ActionTaskMissed}, f.healthCalls)
	assert.Equal(t, 1, f.updatesFor(5))

	cache := s.Tasks()
	require.Len(t, cache, 2)
	assert.Equal(t, task.StatusOverdue, cache[0].Status)
	assert.Equal(t, task.StatusInProgress, cache[1].Status)
}

// Covers P6: the second tick sees the server-side overdue status and makes
// no further calls for the same task.
func TestTick_Idempotent(t *testing.T) {
	st := newServerState(
		task.Task{ID: 5, Name: "Old", Deadline: yesterday(), Priority: task.PriorityLow, Status: task.StatusInProgress},
	)
	f := &fakeAPI{}
	st.bind(f)

	s := newStoreWith(t, f, nil)
	s.today = pinnedToday

	first, err := s.Tick(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Overdue, 1)

	second, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second.Overdue)

	assert.Equal(t, 1, f.updatesFor(5))
	assert.Len(t, f.healthCalls, 1)
}

// Covers P7: one task's PATCH failure does not stop the other task from
// being processed and displayed as overdue.
func TestTick_TaskFailuresAreIsolated(t *testing.T) {
	st := newServerState(
		task.Task{ID: 1, Name: "Fails", Deadline: yesterday(), Priority: task.PriorityLow, Status: task.StatusInProgress},
		task.Task{ID: 2, Name: "Succeeds", Deadline: yesterday(), Priority: task.PriorityLow, Status: task.StatusInProgress},
	)
	st.failUpdate[1] = errors.New("boom")
	f := &fakeAPI{}
	st.bind(f)

	s := newStoreWith(t, f, nil)
	s.today = pinnedToday

	outcome, err := s.Tick(context.Background())
	require.NoError(t, err)
	require.Len(t, outcome.Overdue, 2)

	byID := map[int64]TaskOutcome{}
	for _, o := range outcome.Overdue {
		byID[o.ID] = o
	}
	assert.Error(t, byID[1].UpdateErr)
	assert.NoError(t, byID[1].HealthErr) // health still attempted
	assert.True(t, byID[2].OK())

	for _, cached := range s.Tasks() {
		assert.Equal(t, task.StatusOverdue, cached.Status, "task %d", cached.ID)
	}

	// Reconciliation failures never reach the shared user-facing slot.
	assert.Empty(t, s.LastError())
}

func TestTick_HealthFailureStillRecorded(t *testing.T) {
	st := newServerState(
		task.Task{ID: 1, Name: "Old", Deadline: yesterday(), Priority: task.PriorityLow, Status: task.StatusInProgress},
	)
	st.failHealth = errors.New("pet service down")
	f := &fakeAPI{}
	st.bind(f)

	s := newStoreWith(t, f, nil)
	s.today = pinnedToday

	outcome, err := s.Tick(context.Background())
	require.NoError(t, err)
	require.Len(t, outcome.Overdue, 1)
	assert.NoError(t, outcome.Overdue[0].UpdateErr)
	assert.Error(t, outcome.Overdue[0].HealthErr)
	assert.False(t, outcome.Overdue[0].OK())
}

func TestTick_FetchFailureLeavesCacheAndErrorSlot(t *testing.T) {
	f := &fakeAPI{listFn: func(context.Context) ([]task.Task, error) {
		return nil, errors.New("connection reset")
	}}
	seed := []task.Task{taskA()}
	s := newStoreWith(t, f, seed)
	s.today = pinnedToday

	_, err := s.Tick(context.Background())
	require.Error(t, err)
	assert.Equal(t, seed, s.Tasks())
	assert.Empty(t, s.LastError())
}

// The tick replaces the cache wholesale, so interactive edits that never
// landed server-side are overwritten by the fetched list.
func TestTick_ReplacesCacheWithServerList(t *testing.T) {
	st := newServerState(
		task.Task{ID: 1, Name: "Server truth", Deadline: nextMonth(), Priority: task.PriorityLow, Status: task.StatusInProgress},
	)
	f := &fakeAPI{}
	st.bind(f)

	local := taskA()
	local.Name = "Local only"
	s := newStoreWith(t, f, []task.Task{local})
	s.today = pinnedToday

	_, err := s.Tick(context.Background())
	require.NoError(t, err)

	cache := s.Tasks()
	require.Len(t, cache, 1)
	assert.Equal(t, "Server truth", cache[0].Name)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ticks := make(chan struct{}, 16)
	f := &fakeAPI{listFn: func(context.Context) ([]task.Task, error) {
		ticks <- struct{}{}
		return nil, nil
	}}
	s := newStoreWith(t, f, nil)
	s.today = pinnedToday

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("reconciler never ticked")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reconciler did not stop after cancel")
	}
}

func TestNewStoreDefaults(t *testing.T) {
	s := NewStore(&fakeAPI{}, zerolog.Nop())
	assert.NotNil(t, s.today)
	assert.Empty(t, s.Tasks())
}
