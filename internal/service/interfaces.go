package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitgrid/pkg/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type ChangePasswordRequest struct {
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required,min=8,max=72"`
}

// Empty Icon and Color fall back to the defaults.
type CreateHabitRequest struct {
	Name  string `validate:"required,max=100"`
	Icon  string `validate:"omitempty,habit_icon"`
	Color string `validate:"omitempty,habit_color"`
}

// Nil fields are left as they are.
type UpdateHabitRequest struct {
	Name  *string `validate:"omitempty,max=100"`
	Icon  *string `validate:"omitempty,habit_icon"`
	Color *string `validate:"omitempty,habit_color"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	// Replaces password hash after the old password is confirmed
	ChangePassword(ctx context.Context, id uuid.UUID, req *ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

// Every habit-scoped call checks that the habit belongs to uid. loc is the
// timezone "today" is computed in.
type HabitsServiceI interface {
	CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*entity.Habit, error)
	UpdateHabit(ctx context.Context, habitID, uid uuid.UUID, req *UpdateHabitRequest) (*entity.Habit, error)
	// Deletes habit together with its entries
	DeleteHabit(ctx context.Context, habitID, uid uuid.UUID) error
	GetHabit(ctx context.Context, habitID, uid uuid.UUID) (*entity.HabitWithEntries, error)
	// Lists user's habits with entries, oldest habit first
	GetHabits(ctx context.Context, uid uuid.UUID) ([]entity.HabitWithEntries, error)
	// Advances entry of habit on date (YYYY-MM-DD) through untracked -> completed -> failed -> untracked
	ToggleEntry(ctx context.Context, habitID, uid uuid.UUID, date string, loc *time.Location) (*ToggleResult, error)
	// Month statistics, month is YYYY-MM or empty for the current month
	HabitStats(ctx context.Context, habitID, uid uuid.UUID, month string, loc *time.Location) (*entity.HabitStats, error)
	MonthCalendar(ctx context.Context, habitID, uid uuid.UUID, month string, loc *time.Location) (*MonthCalendar, error)
	// Week of date (YYYY-MM-DD or empty for today) for every habit
	WeekBoard(ctx context.Context, uid uuid.UUID, date string, loc *time.Location) (*WeekBoard, error)
	ExportData(ctx context.Context, uid uuid.UUID) (*ExportDocument, error)
	// Validates doc and replaces all of user's habits and entries with it
	ImportData(ctx context.Context, uid uuid.UUID, doc *ImportDocument) error
	// Uploads export document to backup storage, returns object key
	BackupData(ctx context.Context, uid uuid.UUID) (string, error)
}

type BackupStore interface {
	Upload(ctx context.Context, key string, body []byte) error
}
