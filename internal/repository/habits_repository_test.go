package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/habitgrid/internal/error_values"
	"github.com/limbo/habitgrid/internal/repository"
	"github.com/limbo/habitgrid/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	userID = uuid.New()
)

func TestCreateHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepo(mock)
	habit := entity.Habit{
		UserID: userID,
		Name:   "test_habit",
		Icon:   "book",
		Color:  "green",
	}
	hid := uuid.New()
	now := time.Now()
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO habits (user_id, name, icon, color) VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at;`)
	t.Run("successfully created", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.UserID, habit.Name, habit.Icon, habit.Color).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(hid, now, now))
		created, err := repo.Create(ctx, &habit)
		require.NoError(t, err)
		assert.Equal(t, hid, created.ID)
		assert.Equal(t, habit.Name, created.Name)
		assert.Equal(t, now, created.CreatedAt)
		assert.Equal(t, uuid.Nil, habit.ID)
	})
	t.Run("FK violation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.UserID, habit.Name, habit.Icon, habit.Color).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		_, err := repo.Create(ctx, &habit)
		assert.ErrorIs(t, err, errorvalues.ErrOwnerNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.UserID, habit.Name, habit.Icon, habit.Color).
			WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, &habit)
		assert.Error(t, err)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHabitByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepo(mock)
	habit := entity.Habit{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      "test_habit",
		Icon:      "target",
		Color:     "blue",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	query := regexp.QuoteMeta(`SELECT user_id, name, icon, color, created_at, updated_at FROM habits WHERE id = $1;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.ID).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "name", "icon", "color", "created_at", "updated_at"}).
				AddRow(habit.UserID, habit.Name, habit.Icon, habit.Color, habit.CreatedAt, habit.UpdatedAt),
			)
		result, err := repo.GetByID(ctx, habit.ID)
		assert.NoError(t, err)
		assert.Equal(t, habit, *result)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.ID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByID(ctx, habit.ID)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.ID).
			WillReturnError(errors.New("db error"))
		_, err := repo.GetByID(ctx, habit.ID)
		assert.Error(t, err)
	})
}

func TestGetHabitsByUserID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepo(mock)
	habits := []entity.Habit{
		{
			ID:        uuid.New(),
			UserID:    userID,
			Name:      "test_habit_1",
			Icon:      "sun",
			Color:     "yellow",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		{
			ID:        uuid.New(),
			UserID:    userID,
			Name:      "test_habit_2",
			Icon:      "moon",
			Color:     "indigo",
			CreatedAt: time.Now().Add(time.Hour),
			UpdatedAt: time.Now().Add(time.Hour),
		},
	}
	query := regexp.QuoteMeta(`SELECT id, user_id, name, icon, color, created_at, updated_at FROM habits WHERE user_id = $1 ORDER BY created_at ASC;`)
	columns := []string{"id", "user_id", "name", "icon", "color", "created_at", "updated_at"}
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(columns)
		for _, h := range habits {
			rows.AddRow(h.ID, h.UserID, h.Name, h.Icon, h.Color, h.CreatedAt, h.UpdatedAt)
		}
		mock.ExpectQuery(query).WithArgs(userID).WillReturnRows(rows)
		result, err := repo.GetByUserID(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, habits, result)
	})
	t.Run("no habits", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(userID).WillReturnRows(pgxmock.NewRows(columns))
		result, err := repo.GetByUserID(ctx, userID)
		assert.NoError(t, err)
		assert.Empty(t, result)
		assert.NotNil(t, result)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(userID).WillReturnError(errors.New("db error"))
		_, err := repo.GetByUserID(ctx, userID)
		assert.Error(t, err)
	})
}

func TestUpdateHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepo(mock)
	habit := entity.Habit{
		ID:    uuid.New(),
		Name:  "renamed",
		Icon:  "zap",
		Color: "red",
	}
	created := time.Now().Add(-time.Hour)
	updated := time.Now()
	query := regexp.QuoteMeta(`UPDATE habits SET name = $1, icon = $2, color = $3, updated_at = NOW() WHERE id = $4 RETURNING user_id, created_at, updated_at;`)
	ctx := context.Background()
	t.Run("updated", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.Name, habit.Icon, habit.Color, habit.ID).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "created_at", "updated_at"}).AddRow(userID, created, updated))
		result, err := repo.Update(ctx, &habit)
		require.NoError(t, err)
		assert.Equal(t, userID, result.UserID)
		assert.Equal(t, "renamed", result.Name)
		assert.Equal(t, updated, result.UpdatedAt)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.Name, habit.Icon, habit.Color, habit.ID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.Update(ctx, &habit)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.Name, habit.Icon, habit.Color, habit.ID).
			WillReturnError(errors.New("db error"))
		_, err := repo.Update(ctx, &habit)
		assert.Error(t, err)
	})
}

func TestDeleteHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepo(mock)
	id := uuid.New()
	entriesQuery := regexp.QuoteMeta(`DELETE FROM habit_entries WHERE habit_id = $1;`)
	habitQuery := regexp.QuoteMeta(`DELETE FROM habits WHERE id = $1;`)
	ctx := context.Background()
	t.Run("deleted with entries", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(entriesQuery).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 3))
		mock.ExpectExec(habitQuery).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()
		err := repo.Delete(ctx, id)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(entriesQuery).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(habitQuery).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectRollback()
		err := repo.Delete(ctx, id)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(entriesQuery).WithArgs(id).WillReturnError(errors.New("db error"))
		mock.ExpectRollback()
		err := repo.Delete(ctx, id)
		assert.Error(t, err)
	})
	t.Run("begin error", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("db error"))
		err := repo.Delete(ctx, id)
		assert.Error(t, err)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
