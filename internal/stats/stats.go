// Package stats aggregates habit entries into display statistics and the
// per-day cell state the calendar and week views render. Every function takes
// the entries of a single habit.
package stats

import (
	"sort"
	"time"

	"github.com/limbo/habitgrid/internal/tracker"
	"github.com/limbo/habitgrid/pkg/calendar"
	"github.com/limbo/habitgrid/pkg/entity"
)

// Compute counts the entries of month that are not after today. The
// completion rate is taken over tracked days only: untracked days never enter
// the denominator.
func Compute(entries []entity.HabitEntry, month, today time.Time) entity.HabitStats {
	result := entity.HabitStats{Month: calendar.MonthKey(month)}
	for _, e := range entries {
		d, err := calendar.ParseDateKey(e.Date, month.Location())
		if err != nil {
			continue
		}
		if !calendar.SameMonth(d, month) || calendar.IsFutureAt(d, today) {
			continue
		}
		if e.Completed {
			result.Completed++
		} else {
			result.Failed++
		}
	}
	result.Tracked = result.Completed + result.Failed
	result.CompletionRate = CompletionRate(result.Completed, result.Tracked)
	return result
}

// CompletionRate is round(100 * completed / tracked), halves rounded up, or 0
// when nothing was tracked.
func CompletionRate(completed, tracked int) int {
	if tracked <= 0 {
		return 0
	}
	return (200*completed + tracked) / (2 * tracked)
}

// Streaks returns the current and the longest run of consecutive completed
// days up to today. The current run may end yesterday while today is still
// untracked; a failed day or any other gap ends a run.
func Streaks(entries []entity.HabitEntry, today time.Time) (current, longest int) {
	days := make([]time.Time, 0, len(entries))
	failed := make(map[string]bool)
	for _, e := range entries {
		d, err := calendar.ParseDateKey(e.Date, today.Location())
		if err != nil || calendar.IsFutureAt(d, today) {
			continue
		}
		if !e.Completed {
			failed[e.Date] = true
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return 0, 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	run := 0
	for i, d := range days {
		switch {
		case i == 0:
			run = 1
		case calendar.DaysBetween(days[i-1], d) == 0:
		case calendar.DaysBetween(days[i-1], d) == 1:
			run++
		default:
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	last := days[len(days)-1]
	gap := calendar.DaysBetween(last, today)
	todayFailed := failed[calendar.DateKey(today)]
	if gap == 0 || (gap == 1 && !todayFailed) {
		current = run
	}
	return current, longest
}

// Cell is the render state of one day.
type Cell struct {
	Date     string        `json:"date"`
	State    tracker.State `json:"state"`
	Today    bool          `json:"today"`
	InMonth  bool          `json:"inMonth"`
	Disabled bool          `json:"disabled"`
}

// CellAt renders date for the month view. A cell outside month or in the
// future is disabled whatever its state.
func CellAt(entries []entity.HabitEntry, date, month, today time.Time) Cell {
	key := calendar.DateKey(date)
	cell := Cell{
		Date:    key,
		State:   stateOn(entries, key),
		Today:   calendar.IsTodayAt(date, today),
		InMonth: calendar.SameMonth(date, month),
	}
	cell.Disabled = !cell.InMonth || calendar.IsFutureAt(date, today)
	return cell
}

// MonthCells renders the Monday-first grid of month for one habit's entries.
func MonthCells(entries []entity.HabitEntry, month, today time.Time) []Cell {
	grid := calendar.MonthGrid(month)
	cells := make([]Cell, 0, len(grid))
	for _, d := range grid {
		cells = append(cells, CellAt(entries, d, month, today))
	}
	return cells
}

// WeekCells renders the seven days of ref's week. The week view has no
// displayed month, so only future days are disabled.
func WeekCells(entries []entity.HabitEntry, ref, today time.Time) []Cell {
	days := calendar.WeekDays(ref)
	cells := make([]Cell, 0, len(days))
	for _, d := range days {
		key := calendar.DateKey(d)
		cells = append(cells, Cell{
			Date:     key,
			State:    stateOn(entries, key),
			Today:    calendar.IsTodayAt(d, today),
			InMonth:  true,
			Disabled: calendar.IsFutureAt(d, today),
		})
	}
	return cells
}

func stateOn(entries []entity.HabitEntry, key string) tracker.State {
	for i := range entries {
		if entries[i].Date == key {
			return tracker.StateOf(&entries[i])
		}
	}
	return tracker.StateUntracked
}
