package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Habit struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HabitEntry is a per-day outcome of a habit. Date is a calendar date key
// (YYYY-MM-DD) without any time component; there is at most one entry
// per (HabitID, Date).
type HabitEntry struct {
	ID        uuid.UUID `json:"id"`
	HabitID   uuid.UUID `json:"habitId"`
	Date      string    `json:"date"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// HabitWithEntries is built on read and never stored.
type HabitWithEntries struct {
	Habit
	Entries []HabitEntry `json:"entries"`
}

type HabitStats struct {
	HabitID        uuid.UUID `json:"habitId"`
	Month          string    `json:"month"`
	Completed      int       `json:"completed"`
	Failed         int       `json:"failed"`
	Tracked        int       `json:"tracked"`
	CompletionRate int       `json:"completionRate"`
	CurrentStreak  int       `json:"currentStreak"`
	LongestStreak  int       `json:"longestStreak"`
}

// Habit icons and colors known to the client.
var (
	HabitIcons = []string{
		"activity", "book", "coffee", "dumbbell", "heart",
		"moon", "sun", "water-drop", "zap", "target",
	}
	HabitColors = []string{
		"blue", "green", "purple", "pink", "orange", "red", "yellow", "indigo",
	}
)

const (
	DefaultHabitIcon  = "target"
	DefaultHabitColor = "blue"
)

func IsHabitIcon(icon string) bool {
	for _, i := range HabitIcons {
		if i == icon {
			return true
		}
	}
	return false
}

func IsHabitColor(color string) bool {
	for _, c := range HabitColors {
		if c == color {
			return true
		}
	}
	return false
}
