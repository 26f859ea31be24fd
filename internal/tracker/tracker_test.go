package tracker_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgrid/internal/error_values"
	"github.com/limbo/habitgrid/internal/tracker"
	"github.com/limbo/habitgrid/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	habitID = uuid.New()
	today   = time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)
	day     = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
)

func TestStateCycle(t *testing.T) {
	assert.Equal(t, tracker.StateCompleted, tracker.StateUntracked.Next())
	assert.Equal(t, tracker.StateFailed, tracker.StateCompleted.Next())
	assert.Equal(t, tracker.StateUntracked, tracker.StateFailed.Next())
	for _, s := range []tracker.State{tracker.StateUntracked, tracker.StateCompleted, tracker.StateFailed} {
		assert.Equal(t, s, s.Next().Next().Next())
	}
}

func TestStateText(t *testing.T) {
	for _, s := range []tracker.State{tracker.StateUntracked, tracker.StateCompleted, tracker.StateFailed} {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var parsed tracker.State
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, s, parsed)
	}
	var s tracker.State
	assert.Error(t, s.UnmarshalText([]byte("skipped")))
	_, err := tracker.State(7).MarshalText()
	assert.Error(t, err)
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, tracker.StateUntracked, tracker.StateOf(nil))
	assert.Equal(t, tracker.StateCompleted, tracker.StateOf(&entity.HabitEntry{Completed: true}))
	assert.Equal(t, tracker.StateFailed, tracker.StateOf(&entity.HabitEntry{Completed: false}))
}

func TestToggle(t *testing.T) {
	entryID := uuid.New()
	otherHabit := uuid.New()
	testCases := []struct {
		Desc     string
		Date     time.Time
		Entries  []entity.HabitEntry
		Expected tracker.Action
		Error    error
	}{
		{
			Desc: "untracked creates completed entry",
			Date: day,
			Entries: []entity.HabitEntry{
				{ID: uuid.New(), HabitID: otherHabit, Date: "2024-01-05", Completed: true},
			},
			Expected: tracker.Action{
				Kind: tracker.ActionCreate, HabitID: habitID, Date: "2024-01-05", Completed: true,
				From: tracker.StateUntracked, To: tracker.StateCompleted,
			},
		},
		{
			Desc:    "completed becomes failed",
			Date:    day,
			Entries: []entity.HabitEntry{{ID: entryID, HabitID: habitID, Date: "2024-01-05", Completed: true}},
			Expected: tracker.Action{
				Kind: tracker.ActionUpdate, HabitID: habitID, Date: "2024-01-05", EntryID: entryID, Completed: false,
				From: tracker.StateCompleted, To: tracker.StateFailed,
			},
		},
		{
			Desc:    "failed is deleted",
			Date:    day,
			Entries: []entity.HabitEntry{{ID: entryID, HabitID: habitID, Date: "2024-01-05", Completed: false}},
			Expected: tracker.Action{
				Kind: tracker.ActionDelete, HabitID: habitID, Date: "2024-01-05", EntryID: entryID,
				From: tracker.StateFailed, To: tracker.StateUntracked,
			},
		},
		{
			Desc: "today is allowed",
			Date: time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC),
			Expected: tracker.Action{
				Kind: tracker.ActionCreate, HabitID: habitID, Date: "2024-01-10", Completed: true,
				From: tracker.StateUntracked, To: tracker.StateCompleted,
			},
		},
		{
			Desc:     "future date is refused",
			Date:     time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC),
			Expected: tracker.Action{Kind: tracker.ActionNone, HabitID: habitID, Date: "2024-01-11"},
			Error:    errorvalues.ErrFutureDate,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			action, err := tracker.Toggle(habitID, tc.Date, today, tc.Entries)
			assert.ErrorIs(t, err, tc.Error)
			assert.Equal(t, tc.Expected, action)
		})
	}
}

// store confirms every action and hands back the created record.
func confirm(t *testing.T, entries []entity.HabitEntry, action tracker.Action) []entity.HabitEntry {
	t.Helper()
	var created *entity.HabitEntry
	if action.Kind == tracker.ActionCreate {
		created = &entity.HabitEntry{ID: uuid.New(), HabitID: action.HabitID, Date: action.Date, Completed: action.Completed}
	}
	next, err := tracker.Apply(entries, action, created)
	require.NoError(t, err)
	return next
}

func TestToggleThreeCycleClosure(t *testing.T) {
	initial := []entity.HabitEntry{
		{ID: uuid.New(), HabitID: habitID, Date: "2024-01-04", Completed: true},
		{ID: uuid.New(), HabitID: uuid.New(), Date: "2024-01-05", Completed: false},
	}
	entries := initial
	expectedStates := []tracker.State{tracker.StateCompleted, tracker.StateFailed, tracker.StateUntracked}
	for i, expected := range expectedStates {
		action, err := tracker.Toggle(habitID, day, today, entries)
		require.NoError(t, err)
		entries = confirm(t, entries, action)
		assert.Equal(t, expected, tracker.StateOf(tracker.Find(entries, habitID, "2024-01-05")), "toggle %d", i+1)
	}
	assert.Equal(t, initial, entries)
}

func TestToggleFutureIsNoop(t *testing.T) {
	entries := []entity.HabitEntry{{ID: uuid.New(), HabitID: habitID, Date: "2024-01-12", Completed: true}}
	action, err := tracker.Toggle(habitID, time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), today, entries)
	assert.ErrorIs(t, err, errorvalues.ErrFutureDate)
	next, err := tracker.Apply(entries, action, nil)
	require.NoError(t, err)
	assert.Equal(t, entries, next)
}

func TestApplyErrors(t *testing.T) {
	entries := []entity.HabitEntry{{ID: uuid.New(), HabitID: habitID, Date: "2024-01-05", Completed: true}}
	_, err := tracker.Apply(entries, tracker.Action{Kind: tracker.ActionUpdate, EntryID: uuid.New()}, nil)
	assert.ErrorIs(t, err, errorvalues.ErrEntryNotFound)
	_, err = tracker.Apply(entries, tracker.Action{Kind: tracker.ActionDelete, EntryID: uuid.New()}, nil)
	assert.ErrorIs(t, err, errorvalues.ErrEntryNotFound)
	_, err = tracker.Apply(entries, tracker.Action{Kind: tracker.ActionCreate, HabitID: habitID, Date: "2024-01-06"}, nil)
	assert.ErrorIs(t, err, tracker.ErrCreatedMismatch)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	entryID := uuid.New()
	entries := []entity.HabitEntry{{ID: entryID, HabitID: habitID, Date: "2024-01-05", Completed: true}}
	next, err := tracker.Apply(entries, tracker.Action{Kind: tracker.ActionUpdate, EntryID: entryID, Completed: false}, nil)
	require.NoError(t, err)
	assert.True(t, entries[0].Completed)
	assert.False(t, next[0].Completed)
}
