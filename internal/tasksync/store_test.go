package tasksync

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motivatchi/tchi/internal/api"
	"github.com/motivatchi/tchi/internal/core/task"
)

// fakeAPI implements TaskAPI with overridable funcs and call counting.
type fakeAPI struct {
	mu sync.Mutex

	listFn       func(ctx context.Context) ([]task.Task, error)
	createFn     func(ctx context.Context, nt api.NewTask) (task.Task, error)
	updateFn     func(ctx context.Context, id int64, patch api.TaskPatch) (task.Task, error)
	deleteFn     func(ctx context.Context, id int64) error
	completeFn   func(ctx context.Context, id int64) (task.Reward, error)
	incompleteFn func(ctx context.Context, id int64) (task.Reward, error)
	healthFn     func(ctx context.Context, action string) (float64, error)

	updateCalls []int64
	healthCalls []string
}

func (f *fakeAPI) ListTasks(ctx context.Context) ([]task.Task, error) {
	return f.listFn(ctx)
}

func (f *fakeAPI) CreateTask(ctx context.Context, nt api.NewTask) (task.Task, error) {
	return f.createFn(ctx, nt)
}

func (f *fakeAPI) UpdateTask(ctx context.Context, id int64, patch api.TaskPatch) (task.Task, error) {
	f.mu.Lock()
	f.updateCalls = append(f.updateCalls, id)
	f.mu.Unlock()
	return f.updateFn(ctx, id, patch)
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeAPI) CompleteTask(ctx context.Context, id int64) (task.Reward, error) {
	return f.completeFn(ctx, id)
}

func (f *fakeAPI) MarkIncomplete(ctx context.Context, id int64) (task.Reward, error) {
	return f.incompleteFn(ctx, id)
}

func (f *fakeAPI) AdjustPetHealth(ctx context.Context, action string) (float64, error) {
	f.mu.Lock()
	f.healthCalls = append(f.healthCalls, action)
	f.mu.Unlock()
	return f.healthFn(ctx, action)
}

func (f *fakeAPI) updatesFor(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.updateCalls {
		if u == id {
			n++
		}
	}
	return n
}

func newStoreWith(t *testing.T, f *fakeAPI, seed []task.Task) *Store {
	t.Helper()
	s := NewStore(f, zerolog.Nop())
	s.tasks = seed
	return s
}

func taskA() task.Task {
	return task.Task{
		ID:       1,
		Name:     "A",
		Deadline: task.NewDate(2099, time.January, 1),
		Priority: task.PriorityHigh,
		Status:   task.StatusInProgress,
	}
}

var errTransport = errors.New("connection refused")

func apiFailure() error {
	return &api.StatusError{Status: http.StatusBadRequest, Body: `{"detail":"nope"}`}
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces cache wholesale", func(t *testing.T) {
		fresh := []task.Task{taskA()}
		f := &fakeAPI{listFn: func(context.Context) ([]task.Task, error) { return fresh, nil }}
		s := newStoreWith(t, f, []task.Task{{ID: 99, Name: "stale"}})

		require.NoError(t, s.Refresh(ctx))
		assert.Equal(t, fresh, s.Tasks())
		assert.Empty(t, s.LastError())
	})

	t.Run("failure keeps previous cache", func(t *testing.T) {
		f := &fakeAPI{listFn: func(context.Context) ([]task.Task, error) { return nil, apiFailure() }}
		seed := []task.Task{taskA()}
		s := newStoreWith(t, f, seed)

		require.Error(t, s.Refresh(ctx))
		assert.Equal(t, seed, s.Tasks())
		assert.Equal(t, "Failed to fetch tasks. Please try again.", s.LastError())
	})
}

// Covers P1 and the create scenario from the contract: the new task is
// appended after all existing entries, exactly once, without a refetch.
func TestCreate_AppendsServerTask(t *testing.T) {
	created := task.Task{
		ID:       2,
		Name:     "B",
		Category: "Work",
		Deadline: task.NewDate(2099, time.February, 1),
		Priority: task.PriorityLow,
		Status:   task.StatusInProgress,
	}
	f := &fakeAPI{createFn: func(_ context.Context, nt api.NewTask) (task.Task, error) {
		assert.Equal(t, "B", nt.Name)
		return created, nil
	}}
	s := newStoreWith(t, f, []task.Task{taskA()})

	got, err := s.Create(context.Background(), api.NewTask{
		Name: "B", Category: "Work",
		Deadline: task.NewDate(2099, time.February, 1),
		Priority: task.PriorityLow,
	})
	require.NoError(t, err)
	assert.Equal(t, created, got)

	cache := s.Tasks()
	require.Len(t, cache, 2)
	assert.Equal(t, int64(1), cache[0].ID)
	assert.Equal(t, created, cache[1])
}

func TestCreate_FailureLeavesCacheUntouched(t *testing.T) {
	f := &fakeAPI{createFn: func(context.Context, api.NewTask) (task.Task, error) {
		return task.Task{}, errTransport
	}}
	seed := []task.Task{taskA()}
	s := newStoreWith(t, f, seed)

	_, err := s.Create(context.Background(), api.NewTask{Name: "B"})
	require.Error(t, err)
	assert.Equal(t, seed, s.Tasks())
	assert.Equal(t, "An unexpected error occurred. Please try again.", s.LastError())
}

// Covers P2: only the matching entry is replaced, with the server's record.
func TestUpdate_ReplacesMatchingEntry(t *testing.T) {
	other := task.Task{ID: 2, Name: "B", Deadline: task.NewDate(2099, time.March, 1), Priority: task.PriorityLow, Status: task.StatusInProgress}
	canonical := taskA()
	canonical.Name = "A renamed"
	canonical.Priority = task.PriorityMedium

	f := &fakeAPI{updateFn: func(_ context.Context, id int64, patch api.TaskPatch) (task.Task, error) {
		assert.Equal(t, int64(1), id)
		require.NotNil(t, patch.Name)
		assert.Equal(t, "A renamed", *patch.Name)
		require.NotNil(t, patch.Status)
		return canonical, nil
	}}
	s := newStoreWith(t, f, []task.Task{taskA(), other})

	edited := taskA()
	edited.Name = "A renamed"
	edited.Priority = task.PriorityMedium

	got, err := s.Update(context.Background(), edited)
	require.NoError(t, err)
	assert.Equal(t, canonical, got)

	cache := s.Tasks()
	assert.Equal(t, canonical, cache[0])
	assert.Equal(t, other, cache[1])
}

func TestUpdate_FailureLeavesCacheUntouched(t *testing.T) {
	f := &fakeAPI{updateFn: func(context.Context, int64, api.TaskPatch) (task.Task, error) {
		return task.Task{}, apiFailure()
	}}
	seed := []task.Task{taskA()}
	s := newStoreWith(t, f, seed)

	_, err := s.Update(context.Background(), taskA())
	require.Error(t, err)
	assert.Equal(t, seed, s.Tasks())
	assert.Equal(t, "Failed to update task. Please try again.", s.LastError())
}

// Covers P3: removal by ID, order of the rest retained.
func TestDelete_RemovesByID(t *testing.T) {
	b := task.Task{ID: 2, Name: "B"}
	c := task.Task{ID: 3, Name: "C"}
	f := &fakeAPI{deleteFn: func(_ context.Context, id int64) error {
		assert.Equal(t, int64(2), id)
		return nil
	}}
	s := newStoreWith(t, f, []task.Task{taskA(), b, c})

	require.NoError(t, s.Delete(context.Background(), 2))
	assert.Equal(t, []task.Task{taskA(), c}, s.Tasks())
}

func TestDelete_FailureLeavesCacheUntouched(t *testing.T) {
	f := &fakeAPI{deleteFn: func(context.Context, int64) error { return apiFailure() }}
	seed := []task.Task{taskA()}
	s := newStoreWith(t, f, seed)

	require.Error(t, s.Delete(context.Background(), 1))
	assert.Equal(t, seed, s.Tasks())
	assert.Equal(t, "Failed to delete task. Please try again.", s.LastError())
}

// Covers P4: status is the only cached field that changes, and the reward
// comes back exactly as the server returned it.
func TestComplete_FlipsStatusOnly(t *testing.T) {
	reward := task.Reward{Coins: 30, XP: 10, Level: 3, Health: 4.0}
	f := &fakeAPI{completeFn: func(_ context.Context, id int64) (task.Reward, error) {
		assert.Equal(t, int64(1), id)
		return reward, nil
	}}
	s := newStoreWith(t, f, []task.Task{taskA()})

	got, err := s.Complete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, reward, got)

	want := taskA()
	want.Status = task.StatusCompleted
	assert.Equal(t, []task.Task{want}, s.Tasks())
}

func TestComplete_FailureChangesNothing(t *testing.T) {
	f := &fakeAPI{completeFn: func(context.Context, int64) (task.Reward, error) {
		return task.Reward{}, apiFailure()
	}}
	seed := []task.Task{taskA()}
	s := newStoreWith(t, f, seed)

	got, err := s.Complete(context.Background(), 1)
	require.Error(t, err)
	assert.Zero(t, got)
	assert.Equal(t, seed, s.Tasks())
	assert.Equal(t, "Failed to mark task as complete. Please try again.", s.LastError())
}

func TestMarkIncomplete_FlipsStatusToInProgress(t *testing.T) {
	penalty := task.Reward{Coins: -30, XP: -10, Level: 3, Health: 3.0}
	done := taskA()
	done.Status = task.StatusCompleted

	f := &fakeAPI{incompleteFn: func(context.Context, int64) (task.Reward, error) {
		return penalty, nil
	}}
	s := newStoreWith(t, f, []task.Task{done})

	got, err := s.MarkIncomplete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, penalty, got)
	assert.Equal(t, task.StatusInProgress, s.Tasks()[0].Status)
}

func TestMarkIncomplete_FailureChangesNothing(t *testing.T) {
	done := taskA()
	done.Status = task.StatusCompleted
	f := &fakeAPI{incompleteFn: func(context.Context, int64) (task.Reward, error) {
		return task.Reward{}, errTransport
	}}
	s := newStoreWith(t, f, []task.Task{done})

	_, err := s.MarkIncomplete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, task.StatusCompleted, s.Tasks()[0].Status)
}

func TestLastError_ClearedOnSuccess(t *testing.T) {
	calls := 0
	f := &fakeAPI{listFn: func(context.Context) ([]task.Task, error) {
		calls++
		if calls == 1 {
			return nil, apiFailure()
		}
		return []task.Task{taskA()}, nil
	}}
	s := newStoreWith(t, f, nil)

	require.Error(t, s.Refresh(context.Background()))
	assert.NotEmpty(t, s.LastError())

	require.NoError(t, s.Refresh(context.Background()))
	assert.Empty(t, s.LastError())
}

func TestGet(t *testing.T) {
	s := newStoreWith(t, &fakeAPI{}, []task.Task{taskA()})

	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, taskA(), got)

	_, err = s.Get(42)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestTasks_ReturnsCopy(t *testing.T) {
	s := newStoreWith(t, &fakeAPI{}, []task.Task{taskA()})

	snapshot := s.Tasks()
	snapshot[0].Name = "mutated"

	assert.Equal(t, "A", s.Tasks()[0].Name)
}
