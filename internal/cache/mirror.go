// Package cache keeps an in-memory mirror of each user's habits and entries.
//
// The mirror is only written after the store has confirmed a write; it is never
// updated ahead of the store. Mutations for a user that is not loaded are
// dropped, the next read loads the user from the store. Every mutation and
// invalidation bumps the user's generation; a load started before it is not
// stored.
package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitgrid/pkg/entity"
)

type Snapshot struct {
	Habits  []entity.Habit
	Entries []entity.HabitEntry
}

// EntriesOf returns the entries that belong to habitID.
func (s Snapshot) EntriesOf(habitID uuid.UUID) []entity.HabitEntry {
	out := make([]entity.HabitEntry, 0)
	for _, e := range s.Entries {
		if e.HabitID == habitID {
			out = append(out, e)
		}
	}
	return out
}

func (s Snapshot) Habit(habitID uuid.UUID) (entity.Habit, bool) {
	for _, h := range s.Habits {
		if h.ID == habitID {
			return h, true
		}
	}
	return entity.Habit{}, false
}

type userMirror struct {
	habits   []entity.Habit
	entries  []entity.HabitEntry
	loadedAt time.Time
}

type Mirror struct {
	mu    sync.Mutex
	users map[uuid.UUID]*userMirror
	gens  map[uuid.UUID]uint64
	ttl   time.Duration
	now   func() time.Time
}

// NewMirror creates a mirror whose user snapshots expire after ttl. A zero ttl
// keeps snapshots until they are invalidated.
func NewMirror(ttl time.Duration) *Mirror {
	return &Mirror{
		users: make(map[uuid.UUID]*userMirror),
		gens:  make(map[uuid.UUID]uint64),
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithClock replaces the clock used for expiry.
func (m *Mirror) WithClock(now func() time.Time) *Mirror {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return m
}

// Get returns a copy of uid's snapshot if it is loaded and fresh.
func (m *Mirror) Get(uid uuid.UUID) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	um, ok := m.users[uid]
	if !ok {
		return Snapshot{}, false
	}
	if m.ttl > 0 && m.now().Sub(um.loadedAt) > m.ttl {
		delete(m.users, uid)
		return Snapshot{}, false
	}
	return Snapshot{
		Habits:  append([]entity.Habit(nil), um.habits...),
		Entries: append([]entity.HabitEntry(nil), um.entries...),
	}, true
}

// Generation returns uid's change counter. Take it before reading uid from
// the store and hand it to PutAt.
func (m *Mirror) Generation(uid uuid.UUID) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[uid]
}

// Put replaces uid's snapshot with data freshly read from the store.
func (m *Mirror) Put(uid uuid.UUID, habits []entity.Habit, entries []entity.HabitEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(uid, habits, entries)
}

// PutAt is Put for a load that began at generation gen. It stores nothing and
// reports false when uid was changed or invalidated since then.
func (m *Mirror) PutAt(uid uuid.UUID, gen uint64, habits []entity.Habit, entries []entity.HabitEntry) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens[uid] != gen {
		return false
	}
	m.put(uid, habits, entries)
	return true
}

func (m *Mirror) put(uid uuid.UUID, habits []entity.Habit, entries []entity.HabitEntry) {
	m.users[uid] = &userMirror{
		habits:   append([]entity.Habit(nil), habits...),
		entries:  append([]entity.HabitEntry(nil), entries...),
		loadedAt: m.now(),
	}
}

func (m *Mirror) Invalidate(uid uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens[uid]++
	delete(m.users, uid)
}

// update runs f on uid's mirror if it is loaded.
func (m *Mirror) update(uid uuid.UUID, f func(um *userMirror)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens[uid]++
	if um, ok := m.users[uid]; ok {
		f(um)
	}
}

func (m *Mirror) AddHabit(uid uuid.UUID, habit entity.Habit) {
	m.update(uid, func(um *userMirror) {
		um.habits = append(um.habits, habit)
	})
}

func (m *Mirror) ReplaceHabit(uid uuid.UUID, habit entity.Habit) {
	m.update(uid, func(um *userMirror) {
		for i := range um.habits {
			if um.habits[i].ID == habit.ID {
				um.habits[i] = habit
			}
		}
	})
}

// RemoveHabit drops the habit and all of its entries.
func (m *Mirror) RemoveHabit(uid, habitID uuid.UUID) {
	m.update(uid, func(um *userMirror) {
		habits := um.habits[:0]
		for _, h := range um.habits {
			if h.ID != habitID {
				habits = append(habits, h)
			}
		}
		um.habits = habits
		entries := um.entries[:0]
		for _, e := range um.entries {
			if e.HabitID != habitID {
				entries = append(entries, e)
			}
		}
		um.entries = entries
	})
}

// ApplyEntries replaces uid's entries with the result of f, used after a
// confirmed toggle. When f fails the user's snapshot is dropped.
func (m *Mirror) ApplyEntries(uid uuid.UUID, f func(entries []entity.HabitEntry) ([]entity.HabitEntry, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens[uid]++
	um, ok := m.users[uid]
	if !ok {
		return
	}
	next, err := f(um.entries)
	if err != nil {
		delete(m.users, uid)
		return
	}
	um.entries = next
}
