package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitgrid/internal/cache"
	errorvalues "github.com/limbo/habitgrid/internal/error_values"
	"github.com/limbo/habitgrid/internal/repository"
	"github.com/limbo/habitgrid/pkg/entity"
)

// HabitsService coordinates the store and the per-user mirror. Every write goes
// to the store first; the mirror only sees writes the store has confirmed.
type HabitsService struct {
	habits  repository.HabitsRepositoryI
	entries repository.HabitEntriesRepositoryI
	data    repository.DataRepositoryI
	mirror  *cache.Mirror
	backups BackupStore
	now     func() time.Time
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI, entriesRepo repository.HabitEntriesRepositoryI,
	dataRepo repository.DataRepositoryI, mirror *cache.Mirror) *HabitsService {
	if habitsRepo == nil || entriesRepo == nil || dataRepo == nil {
		log.Fatal("provided nil repository")
	}
	if mirror == nil {
		mirror = cache.NewMirror(0)
	}
	InitValidator()
	return &HabitsService{
		habits:  habitsRepo,
		entries: entriesRepo,
		data:    dataRepo,
		mirror:  mirror,
		now:     time.Now,
	}
}

// WithBackups enables BackupData. Without a store it fails with ErrBackupDisabled.
func (hs *HabitsService) WithBackups(store BackupStore) *HabitsService {
	hs.backups = store
	return hs
}

func (hs *HabitsService) WithClock(now func() time.Time) *HabitsService {
	hs.now = now
	return hs
}

// snapshot returns uid's habits and entries from the mirror, loading them from
// the store on a miss.
func (hs *HabitsService) snapshot(ctx context.Context, uid uuid.UUID) (cache.Snapshot, error) {
	if snap, ok := hs.mirror.Get(uid); ok {
		return snap, nil
	}
	gen := hs.mirror.Generation(uid)
	habits, err := hs.habits.GetByUserID(ctx, uid)
	if err != nil {
		return cache.Snapshot{}, errors.New("habits repository error: " + err.Error())
	}
	entries := make([]entity.HabitEntry, 0)
	if len(habits) > 0 {
		ids := make([]uuid.UUID, 0, len(habits))
		for _, h := range habits {
			ids = append(ids, h.ID)
		}
		entries, err = hs.entries.GetByHabitIDs(ctx, ids)
		if err != nil {
			return cache.Snapshot{}, errors.New("entries repository error: " + err.Error())
		}
	}
	hs.mirror.PutAt(uid, gen, habits, entries)
	return cache.Snapshot{Habits: habits, Entries: entries}, nil
}

// ownedHabit finds habitID among uid's habits. A habit of another user is
// reported as ErrWrongOwner.
func (hs *HabitsService) ownedHabit(ctx context.Context, habitID, uid uuid.UUID) (entity.Habit, cache.Snapshot, error) {
	snap, err := hs.snapshot(ctx, uid)
	if err != nil {
		return entity.Habit{}, cache.Snapshot{}, err
	}
	if habit, ok := snap.Habit(habitID); ok {
		return habit, snap, nil
	}
	habit, err := hs.habits.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return entity.Habit{}, cache.Snapshot{}, err
		}
		return entity.Habit{}, cache.Snapshot{}, errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != uid {
		return entity.Habit{}, cache.Snapshot{}, errorvalues.ErrWrongOwner
	}
	// Mirror is behind the store.
	hs.mirror.Invalidate(uid)
	snap, err = hs.snapshot(ctx, uid)
	if err != nil {
		return entity.Habit{}, cache.Snapshot{}, err
	}
	return *habit, snap, nil
}

func (hs *HabitsService) CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*entity.Habit, error) {
	r := *req
	r.Name = strings.TrimSpace(r.Name)
	if err := validateStruct(r); err != nil {
		return nil, err
	}
	h := entity.Habit{
		UserID: uid,
		Name:   r.Name,
		Icon:   r.Icon,
		Color:  r.Color,
	}
	if h.Icon == "" {
		h.Icon = entity.DefaultHabitIcon
	}
	if h.Color == "" {
		h.Color = entity.DefaultHabitColor
	}
	habit, err := hs.habits.Create(ctx, &h)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			return nil, errorvalues.ErrUserNotFound
		case errors.Is(err, errorvalues.ErrHabitExists):
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	hs.mirror.AddHabit(uid, *habit)
	return habit, nil
}

func (hs *HabitsService) UpdateHabit(ctx context.Context, habitID, uid uuid.UUID, req *UpdateHabitRequest) (*entity.Habit, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	habit, _, err := hs.ownedHabit(ctx, habitID, uid)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.Join(errorvalues.ErrValidation, errors.New("habit name is empty"))
		}
		habit.Name = name
	}
	if req.Icon != nil && *req.Icon != "" {
		habit.Icon = *req.Icon
	}
	if req.Color != nil && *req.Color != "" {
		habit.Color = *req.Color
	}
	updated, err := hs.habits.Update(ctx, &habit)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			hs.mirror.Invalidate(uid)
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	hs.mirror.ReplaceHabit(uid, *updated)
	return updated, nil
}

func (hs *HabitsService) DeleteHabit(ctx context.Context, habitID, uid uuid.UUID) error {
	if _, _, err := hs.ownedHabit(ctx, habitID, uid); err != nil {
		return err
	}
	err := hs.habits.Delete(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			hs.mirror.Invalidate(uid)
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	hs.mirror.RemoveHabit(uid, habitID)
	return nil
}

func (hs *HabitsService) GetHabit(ctx context.Context, habitID, uid uuid.UUID) (*entity.HabitWithEntries, error) {
	habit, snap, err := hs.ownedHabit(ctx, habitID, uid)
	if err != nil {
		return nil, err
	}
	return &entity.HabitWithEntries{
		Habit:   habit,
		Entries: snap.EntriesOf(habitID),
	}, nil
}

func (hs *HabitsService) GetHabits(ctx context.Context, uid uuid.UUID) ([]entity.HabitWithEntries, error) {
	snap, err := hs.snapshot(ctx, uid)
	if err != nil {
		return nil, err
	}
	result := make([]entity.HabitWithEntries, 0, len(snap.Habits))
	for _, h := range snap.Habits {
		result = append(result, entity.HabitWithEntries{
			Habit:   h,
			Entries: snap.EntriesOf(h.ID),
		})
	}
	return result, nil
}
