package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/limbo/habitgrid/pkg/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Updates user's info
	Update(ctx context.Context, user *entity.User) error
	// Deletes user together with its habits and entries
	Delete(ctx context.Context, uid uuid.UUID) error
}

type HabitsRepositoryI interface {
	// Creates new habit. UserID, Name, Icon and Color are necessary. Returns stored habit
	Create(ctx context.Context, habit *entity.Habit) (*entity.Habit, error)
	// Searches habit with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	// Lists all habits owned by user with uid, oldest first
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.Habit, error)
	// Updates name, icon and color of habit by ID
	Update(ctx context.Context, habit *entity.Habit) (*entity.Habit, error)
	// Deletes habit with id and all of its entries
	Delete(ctx context.Context, id uuid.UUID) error
}

type HabitEntriesRepositoryI interface {
	// Creates entry of habitID on date (YYYY-MM-DD)
	Create(ctx context.Context, habitID uuid.UUID, date string, completed bool) (*entity.HabitEntry, error)
	// Sets completed flag of entry
	UpdateCompleted(ctx context.Context, id uuid.UUID, completed bool) error
	// Deletes entry (back to untracked)
	Delete(ctx context.Context, id uuid.UUID) error
	// Lists entries of given habits, newest date first
	GetByHabitIDs(ctx context.Context, habitIDs []uuid.UUID) ([]entity.HabitEntry, error)
}

type DataRepositoryI interface {
	// Deletes every habit and entry of uid, then inserts given ones
	ReplaceUserData(ctx context.Context, uid uuid.UUID, habits []entity.Habit, entries []entity.HabitEntry) error
}
