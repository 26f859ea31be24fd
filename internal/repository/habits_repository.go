package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/habitgrid/internal/error_values"
	"github.com/limbo/habitgrid/pkg/entity"
)

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(conn PgConnection) *HabitsRepository {
	return &HabitsRepository{
		conn: conn,
	}
}

func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) (*entity.Habit, error) {
	created := *habit
	row := hr.conn.QueryRow(ctx, `INSERT INTO habits (user_id, name, icon, color) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at;`,
		habit.UserID,
		habit.Name,
		habit.Icon,
		habit.Color,
	)
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		switch pgErrorCode(err) {
		case pgForeignKeyViolation:
			return nil, errorvalues.ErrOwnerNotFound
		case pgUniqueViolation:
			return nil, errorvalues.ErrHabitExists
		}
		return nil, errors.New("creating habit db error: " + err.Error())
	}
	return &created, nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	var habit entity.Habit
	habit.ID = id
	row := hr.conn.QueryRow(ctx, `SELECT user_id, name, icon, color, created_at, updated_at FROM habits WHERE id = $1;`, id)
	if err := row.Scan(&habit.UserID, &habit.Name, &habit.Icon, &habit.Color, &habit.CreatedAt, &habit.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by id error: " + err.Error())
	}
	return &habit, nil
}

func (hr *HabitsRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.Habit, error) {
	habits := make([]entity.Habit, 0)
	rows, err := hr.conn.Query(ctx, `SELECT id, user_id, name, icon, color, created_at, updated_at
		FROM habits WHERE user_id = $1 ORDER BY created_at ASC;`, uid)
	if err != nil {
		return nil, errors.New("getting habits by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		h := entity.Habit{}
		err = rows.Scan(&h.ID, &h.UserID, &h.Name, &h.Icon, &h.Color, &h.CreatedAt, &h.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling habit error: " + err.Error())
		}
		habits = append(habits, h)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning habits: " + err.Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) Update(ctx context.Context, habit *entity.Habit) (*entity.Habit, error) {
	updated := *habit
	row := hr.conn.QueryRow(ctx, `UPDATE habits SET name = $1, icon = $2, color = $3, updated_at = NOW()
		WHERE id = $4 RETURNING user_id, created_at, updated_at;`,
		habit.Name, habit.Icon, habit.Color, habit.ID,
	)
	if err := row.Scan(&updated.UserID, &updated.CreatedAt, &updated.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("error updating habit: " + err.Error())
	}
	return &updated, nil
}

// Delete removes the habit's entries and the habit in one transaction.
func (hr *HabitsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := hr.conn.Begin(ctx)
	if err != nil {
		return errors.New("beginning habit deletion error: " + err.Error())
	}
	if _, err = tx.Exec(ctx, `DELETE FROM habit_entries WHERE habit_id = $1;`, id); err != nil {
		rollback(ctx, tx)
		return errors.New("error deleting habit entries: " + err.Error())
	}
	ct, err := tx.Exec(ctx, `DELETE FROM habits WHERE id = $1;`, id)
	if err != nil {
		rollback(ctx, tx)
		return errors.New("error deleting habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		rollback(ctx, tx)
		return errorvalues.ErrHabitNotFound
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing habit deletion error: " + err.Error())
	}
	return nil
}
