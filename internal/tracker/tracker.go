// Package tracker holds the per-day entry state machine.
//
// A habit on a given day is Untracked (no entry), Completed (entry with
// completed=true) or Failed (entry with completed=false). Toggling walks the
// cycle Untracked -> Completed -> Failed -> Untracked and nothing else.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgrid/internal/error_values"
	"github.com/limbo/habitgrid/pkg/calendar"
	"github.com/limbo/habitgrid/pkg/entity"
)

type State int

const (
	StateUntracked State = iota
	StateCompleted
	StateFailed
)

// Next returns the state a toggle moves to.
func (s State) Next() State {
	switch s {
	case StateUntracked:
		return StateCompleted
	case StateCompleted:
		return StateFailed
	case StateFailed:
		return StateUntracked
	}
	panic(fmt.Sprintf("tracker: unknown state %d", int(s)))
}

func (s State) String() string {
	switch s {
	case StateUntracked:
		return "untracked"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	switch s {
	case StateUntracked, StateCompleted, StateFailed:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("tracker: unknown state %d", int(s))
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "untracked":
		*s = StateUntracked
	case "completed":
		*s = StateCompleted
	case "failed":
		*s = StateFailed
	default:
		return fmt.Errorf("tracker: unknown state %q", string(text))
	}
	return nil
}

// StateOf maps an entry (nil when absent) to its state.
func StateOf(entry *entity.HabitEntry) State {
	switch {
	case entry == nil:
		return StateUntracked
	case entry.Completed:
		return StateCompleted
	default:
		return StateFailed
	}
}

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "none"
	}
}

// Action is the single store write a toggle requires. EntryID is set for
// Update and Delete; Completed is the value to write for Create and Update.
type Action struct {
	Kind      ActionKind
	HabitID   uuid.UUID
	Date      string
	EntryID   uuid.UUID
	Completed bool
	From      State
	To        State
}

// Find returns the entry of habitID on date, or nil.
func Find(entries []entity.HabitEntry, habitID uuid.UUID, date string) *entity.HabitEntry {
	for i := range entries {
		if entries[i].HabitID == habitID && entries[i].Date == date {
			return &entries[i]
		}
	}
	return nil
}

// Toggle computes the next persisted state of habitID on date. Dates after
// today are refused with ErrFutureDate and an ActionNone.
func Toggle(habitID uuid.UUID, date, today time.Time, entries []entity.HabitEntry) (Action, error) {
	key := calendar.DateKey(date)
	if calendar.IsFutureAt(date, today) {
		return Action{Kind: ActionNone, HabitID: habitID, Date: key}, errorvalues.ErrFutureDate
	}
	existing := Find(entries, habitID, key)
	from := StateOf(existing)
	action := Action{
		HabitID: habitID,
		Date:    key,
		From:    from,
		To:      from.Next(),
	}
	switch from {
	case StateUntracked:
		action.Kind = ActionCreate
		action.Completed = true
	case StateCompleted:
		action.Kind = ActionUpdate
		action.EntryID = existing.ID
		action.Completed = false
	case StateFailed:
		action.Kind = ActionDelete
		action.EntryID = existing.ID
	}
	return action, nil
}

var ErrCreatedMismatch = errors.New("created entry doesn't match the action")

// Apply returns entries after action has been confirmed by the store. For
// ActionCreate, created is the stored record. The input slice is not modified.
func Apply(entries []entity.HabitEntry, action Action, created *entity.HabitEntry) ([]entity.HabitEntry, error) {
	out := make([]entity.HabitEntry, 0, len(entries)+1)
	switch action.Kind {
	case ActionNone:
		return append(out, entries...), nil
	case ActionCreate:
		if created == nil || created.HabitID != action.HabitID || created.Date != action.Date {
			return nil, ErrCreatedMismatch
		}
		out = append(out, entries...)
		return append(out, *created), nil
	case ActionUpdate:
		found := false
		for _, e := range entries {
			if e.ID == action.EntryID {
				e.Completed = action.Completed
				found = true
			}
			out = append(out, e)
		}
		if !found {
			return nil, errorvalues.ErrEntryNotFound
		}
		return out, nil
	case ActionDelete:
		found := false
		for _, e := range entries {
			if e.ID == action.EntryID {
				found = true
				continue
			}
			out = append(out, e)
		}
		if !found {
			return nil, errorvalues.ErrEntryNotFound
		}
		return out, nil
	}
	return nil, fmt.Errorf("tracker: unknown action %d", int(action.Kind))
}
