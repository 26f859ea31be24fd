package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgrid/internal/error_values"
	"github.com/limbo/habitgrid/internal/stats"
	"github.com/limbo/habitgrid/internal/tracker"
	"github.com/limbo/habitgrid/pkg/calendar"
	"github.com/limbo/habitgrid/pkg/entity"
)

type ToggleResult struct {
	State tracker.State      `json:"state"`
	Entry *entity.HabitEntry `json:"entry,omitempty"`
}

type MonthCalendar struct {
	Month string            `json:"month"`
	Habit entity.Habit      `json:"habit"`
	Cells []stats.Cell      `json:"cells"`
	Stats entity.HabitStats `json:"stats"`
}

type WeekRow struct {
	Habit entity.Habit `json:"habit"`
	Cells []stats.Cell `json:"cells"`
}

type WeekBoard struct {
	Days   []string  `json:"days"`
	Habits []WeekRow `json:"habits"`
}

func (hs *HabitsService) today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return hs.now().In(loc)
}

// month parses a YYYY-MM key; an empty key selects the month of today.
func (hs *HabitsService) month(key string, loc *time.Location) (time.Time, error) {
	if key == "" {
		today := hs.today(loc)
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()), nil
	}
	m, err := calendar.ParseMonthKey(key, loc)
	if err != nil {
		return time.Time{}, errors.Join(errorvalues.ErrInvalidDate, err)
	}
	return m, nil
}

func (hs *HabitsService) ToggleEntry(ctx context.Context, habitID, uid uuid.UUID, date string, loc *time.Location) (*ToggleResult, error) {
	day, err := calendar.ParseDateKey(date, loc)
	if err != nil {
		return nil, errors.Join(errorvalues.ErrInvalidDate, err)
	}
	_, snap, err := hs.ownedHabit(ctx, habitID, uid)
	if err != nil {
		return nil, err
	}
	action, err := tracker.Toggle(habitID, day, hs.today(loc), snap.EntriesOf(habitID))
	if err != nil {
		return nil, err
	}
	var created *entity.HabitEntry
	switch action.Kind {
	case tracker.ActionCreate:
		created, err = hs.entries.Create(ctx, habitID, action.Date, action.Completed)
	case tracker.ActionUpdate:
		err = hs.entries.UpdateCompleted(ctx, action.EntryID, action.Completed)
	case tracker.ActionDelete:
		err = hs.entries.Delete(ctx, action.EntryID)
	}
	if err != nil {
		switch {
		// The store disagrees with the mirror; reload on the next read.
		case errors.Is(err, errorvalues.ErrEntryExists),
			errors.Is(err, errorvalues.ErrEntryNotFound),
			errors.Is(err, errorvalues.ErrHabitNotFound):
			hs.mirror.Invalidate(uid)
			return nil, err
		}
		return nil, errors.New("entries repository error: " + err.Error())
	}
	hs.mirror.ApplyEntries(uid, func(entries []entity.HabitEntry) ([]entity.HabitEntry, error) {
		return tracker.Apply(entries, action, created)
	})
	result := &ToggleResult{State: action.To}
	switch action.Kind {
	case tracker.ActionCreate:
		result.Entry = created
	case tracker.ActionUpdate:
		if e := tracker.Find(snap.Entries, habitID, action.Date); e != nil {
			entry := *e
			entry.Completed = action.Completed
			result.Entry = &entry
		}
	}
	return result, nil
}

func (hs *HabitsService) HabitStats(ctx context.Context, habitID, uid uuid.UUID, month string, loc *time.Location) (*entity.HabitStats, error) {
	m, err := hs.month(month, loc)
	if err != nil {
		return nil, err
	}
	_, snap, err := hs.ownedHabit(ctx, habitID, uid)
	if err != nil {
		return nil, err
	}
	result := habitStats(habitID, snap.EntriesOf(habitID), m, hs.today(loc))
	return &result, nil
}

func (hs *HabitsService) MonthCalendar(ctx context.Context, habitID, uid uuid.UUID, month string, loc *time.Location) (*MonthCalendar, error) {
	m, err := hs.month(month, loc)
	if err != nil {
		return nil, err
	}
	habit, snap, err := hs.ownedHabit(ctx, habitID, uid)
	if err != nil {
		return nil, err
	}
	today := hs.today(loc)
	entries := snap.EntriesOf(habitID)
	return &MonthCalendar{
		Month: calendar.MonthKey(m),
		Habit: habit,
		Cells: stats.MonthCells(entries, m, today),
		Stats: habitStats(habitID, entries, m, today),
	}, nil
}

func (hs *HabitsService) WeekBoard(ctx context.Context, uid uuid.UUID, date string, loc *time.Location) (*WeekBoard, error) {
	today := hs.today(loc)
	ref := today
	if date != "" {
		d, err := calendar.ParseDateKey(date, loc)
		if err != nil {
			return nil, errors.Join(errorvalues.ErrInvalidDate, err)
		}
		ref = d
	}
	snap, err := hs.snapshot(ctx, uid)
	if err != nil {
		return nil, err
	}
	board := &WeekBoard{
		Days:   make([]string, 0, 7),
		Habits: make([]WeekRow, 0, len(snap.Habits)),
	}
	for _, d := range calendar.WeekDays(ref) {
		board.Days = append(board.Days, calendar.DateKey(d))
	}
	for _, h := range snap.Habits {
		board.Habits = append(board.Habits, WeekRow{
			Habit: h,
			Cells: stats.WeekCells(snap.EntriesOf(h.ID), ref, today),
		})
	}
	return board, nil
}

func habitStats(habitID uuid.UUID, entries []entity.HabitEntry, month, today time.Time) entity.HabitStats {
	result := stats.Compute(entries, month, today)
	result.HabitID = habitID
	result.CurrentStreak, result.LongestStreak = stats.Streaks(entries, today)
	return result
}
