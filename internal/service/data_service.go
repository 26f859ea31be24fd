package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgrid/internal/error_values"
	"github.com/limbo/habitgrid/pkg/calendar"
	"github.com/limbo/habitgrid/pkg/entity"
)

type ExportDocument struct {
	Habits     []entity.Habit      `json:"habits"`
	Entries    []entity.HabitEntry `json:"entries"`
	ExportedAt time.Time           `json:"exportedAt"`
	UserID     uuid.UUID           `json:"userId"`
}

// ImportDocument is an export document read back. The arrays are pointers so
// that a missing array can be told apart from an empty one.
type ImportDocument struct {
	Habits  *[]entity.Habit      `json:"habits"`
	Entries *[]entity.HabitEntry `json:"entries"`
}

// EncodeExport renders doc the way it is downloaded and backed up.
func EncodeExport(doc *ExportDocument) ([]byte, error) {
	return sonic.ConfigDefault.MarshalIndent(doc, "", "  ")
}

// BackupKey names the backup object of uid taken on day.
func BackupKey(uid uuid.UUID, day time.Time) string {
	return "habit-tracker-backup-" + uid.String() + "-" + calendar.DateKey(day) + ".json"
}

func (hs *HabitsService) ExportData(ctx context.Context, uid uuid.UUID) (*ExportDocument, error) {
	snap, err := hs.snapshot(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &ExportDocument{
		Habits:     snap.Habits,
		Entries:    snap.Entries,
		ExportedAt: hs.now().UTC(),
		UserID:     uid,
	}, nil
}

func (hs *HabitsService) ImportData(ctx context.Context, uid uuid.UUID, doc *ImportDocument) error {
	habits, entries, err := hs.checkImport(uid, doc)
	if err != nil {
		return err
	}
	err = hs.data.ReplaceUserData(ctx, uid, habits, entries)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitExists), errors.Is(err, errorvalues.ErrEntryExists):
			return err
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			return errorvalues.ErrUserNotFound
		}
		return errors.New("data repository error: " + err.Error())
	}
	hs.mirror.Invalidate(uid)
	return nil
}

// checkImport validates doc as a whole and returns the records to store,
// owned by uid and with defaults filled in. Nothing is stored when it fails.
func (hs *HabitsService) checkImport(uid uuid.UUID, doc *ImportDocument) ([]entity.Habit, []entity.HabitEntry, error) {
	invalid := func(format string, args ...any) error {
		return errors.Join(errorvalues.ErrInvalidImport, fmt.Errorf(format, args...))
	}
	if doc == nil || doc.Habits == nil || doc.Entries == nil {
		return nil, nil, invalid("habits and entries arrays are required")
	}
	now := hs.now()
	habits := make([]entity.Habit, 0, len(*doc.Habits))
	known := make(map[uuid.UUID]bool, len(*doc.Habits))
	for i, h := range *doc.Habits {
		if h.ID == uuid.Nil {
			return nil, nil, invalid("habit %d has no id", i)
		}
		if known[h.ID] {
			return nil, nil, invalid("habit %s is listed twice", h.ID)
		}
		h.Name = strings.TrimSpace(h.Name)
		if h.Name == "" {
			return nil, nil, invalid("habit %s has no name", h.ID)
		}
		// Same rules as a created habit.
		if err := validateStruct(CreateHabitRequest{Name: h.Name, Icon: h.Icon, Color: h.Color}); err != nil {
			return nil, nil, invalid("habit %s: %v", h.ID, err)
		}
		if h.Icon == "" {
			h.Icon = entity.DefaultHabitIcon
		}
		if h.Color == "" {
			h.Color = entity.DefaultHabitColor
		}
		if h.CreatedAt.IsZero() {
			h.CreatedAt = now
		}
		h.UserID = uid
		known[h.ID] = true
		habits = append(habits, h)
	}
	entries := make([]entity.HabitEntry, 0, len(*doc.Entries))
	days := make(map[string]bool, len(*doc.Entries))
	for i, e := range *doc.Entries {
		if !known[e.HabitID] {
			return nil, nil, invalid("entry %d references unknown habit %s", i, e.HabitID)
		}
		d, err := calendar.ParseDateKey(e.Date, time.UTC)
		if err != nil {
			return nil, nil, invalid("entry %d has invalid date %q", i, e.Date)
		}
		e.Date = calendar.DateKey(d)
		day := e.HabitID.String() + "/" + e.Date
		if days[day] {
			return nil, nil, invalid("habit %s has two entries on %s", e.HabitID, e.Date)
		}
		days[day] = true
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		entries = append(entries, e)
	}
	return habits, entries, nil
}

func (hs *HabitsService) BackupData(ctx context.Context, uid uuid.UUID) (string, error) {
	if hs.backups == nil {
		return "", errorvalues.ErrBackupDisabled
	}
	doc, err := hs.ExportData(ctx, uid)
	if err != nil {
		return "", err
	}
	body, err := EncodeExport(doc)
	if err != nil {
		return "", errors.New("encoding backup error: " + err.Error())
	}
	key := BackupKey(uid, doc.ExportedAt)
	if err = hs.backups.Upload(ctx, key, body); err != nil {
		return "", errors.New("uploading backup error: " + err.Error())
	}
	return key, nil
}
