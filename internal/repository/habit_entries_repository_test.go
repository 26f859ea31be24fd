package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/habitgrid/internal/error_values"
	"github.com/limbo/habitgrid/internal/repository"
	"github.com/limbo/habitgrid/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEntry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitEntriesRepo(mock)
	hid := uuid.New()
	eid := uuid.New()
	now := time.Now()
	query := regexp.QuoteMeta(`INSERT INTO habit_entries (habit_id, entry_date, completed) VALUES ($1, $2::date, $3) RETURNING id, created_at;`)
	ctx := context.Background()
	t.Run("created", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(hid, "2024-03-15", true).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(eid, now))
		entry, err := repo.Create(ctx, hid, "2024-03-15", true)
		require.NoError(t, err)
		assert.Equal(t, entity.HabitEntry{
			ID:        eid,
			HabitID:   hid,
			Date:      "2024-03-15",
			Completed: true,
			CreatedAt: now,
		}, *entry)
	})
	t.Run("already tracked", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(hid, "2024-03-15", true).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		_, err := repo.Create(ctx, hid, "2024-03-15", true)
		assert.ErrorIs(t, err, errorvalues.ErrEntryExists)
	})
	t.Run("habit missing", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(hid, "2024-03-15", false).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		_, err := repo.Create(ctx, hid, "2024-03-15", false)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(hid, "2024-03-15", true).
			WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, hid, "2024-03-15", true)
		assert.Error(t, err)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEntryCompleted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitEntriesRepo(mock)
	eid := uuid.New()
	query := regexp.QuoteMeta(`UPDATE habit_entries SET completed = $1, updated_at = NOW() WHERE id = $2;`)
	ctx := context.Background()
	t.Run("updated", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(false, eid).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.UpdateCompleted(ctx, eid, false))
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(false, eid).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.UpdateCompleted(ctx, eid, false), errorvalues.ErrEntryNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(true, eid).WillReturnError(errors.New("db error"))
		assert.Error(t, repo.UpdateCompleted(ctx, eid, true))
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEntry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitEntriesRepo(mock)
	eid := uuid.New()
	query := regexp.QuoteMeta(`DELETE FROM habit_entries WHERE id = $1;`)
	ctx := context.Background()
	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(eid).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		assert.NoError(t, repo.Delete(ctx, eid))
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(eid).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		assert.ErrorIs(t, repo.Delete(ctx, eid), errorvalues.ErrEntryNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(eid).WillReturnError(errors.New("db error"))
		assert.Error(t, repo.Delete(ctx, eid))
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEntriesByHabitIDs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitEntriesRepo(mock)
	h1, h2 := uuid.New(), uuid.New()
	now := time.Now()
	entries := []entity.HabitEntry{
		{ID: uuid.New(), HabitID: h1, Date: "2024-03-16", Completed: true, CreatedAt: now},
		{ID: uuid.New(), HabitID: h2, Date: "2024-03-15", Completed: false, CreatedAt: now},
	}
	columns := []string{"id", "habit_id", "entry_date", "completed", "created_at"}
	query := regexp.QuoteMeta(`FROM habit_entries WHERE habit_id = ANY($1) ORDER BY entry_date DESC;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(columns)
		for _, e := range entries {
			rows.AddRow(e.ID, e.HabitID, e.Date, e.Completed, e.CreatedAt)
		}
		mock.ExpectQuery(query).WithArgs([]uuid.UUID{h1, h2}).WillReturnRows(rows)
		result, err := repo.GetByHabitIDs(ctx, []uuid.UUID{h1, h2})
		require.NoError(t, err)
		assert.Equal(t, entries, result)
	})
	t.Run("no habits means no query", func(t *testing.T) {
		result, err := repo.GetByHabitIDs(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs([]uuid.UUID{h1}).WillReturnError(errors.New("db error"))
		_, err := repo.GetByHabitIDs(ctx, []uuid.UUID{h1})
		assert.Error(t, err)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
