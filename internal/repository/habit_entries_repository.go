package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgrid/internal/error_values"
	"github.com/limbo/habitgrid/pkg/entity"
)

// Entry dates are DATE columns; they travel as YYYY-MM-DD text in both
// directions so no timezone conversion touches them.
type HabitEntriesRepository struct {
	conn PgConnection
}

func NewHabitEntriesRepo(conn PgConnection) *HabitEntriesRepository {
	return &HabitEntriesRepository{
		conn: conn,
	}
}

func (er *HabitEntriesRepository) Create(ctx context.Context, habitID uuid.UUID, date string, completed bool) (*entity.HabitEntry, error) {
	entry := entity.HabitEntry{
		HabitID:   habitID,
		Date:      date,
		Completed: completed,
	}
	row := er.conn.QueryRow(
		ctx,
		`INSERT INTO habit_entries (habit_id, entry_date, completed) VALUES ($1, $2::date, $3) RETURNING id, created_at;`,
		habitID,
		date,
		completed,
	)
	if err := row.Scan(&entry.ID, &entry.CreatedAt); err != nil {
		switch pgErrorCode(err) {
		// Unique violation on (habit_id, entry_date)
		case pgUniqueViolation:
			return nil, errorvalues.ErrEntryExists
		// FK violation
		case pgForeignKeyViolation:
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("creating entry error: " + err.Error())
	}
	return &entry, nil
}

func (er *HabitEntriesRepository) UpdateCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	ct, err := er.conn.Exec(
		ctx,
		`UPDATE habit_entries SET completed = $1, updated_at = NOW() WHERE id = $2;`,
		completed,
		id,
	)
	if err != nil {
		return errors.New("updating entry error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEntryNotFound
	}
	return nil
}

func (er *HabitEntriesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := er.conn.Exec(ctx, `DELETE FROM habit_entries WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting entry error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEntryNotFound
	}
	return nil
}

func (er *HabitEntriesRepository) GetByHabitIDs(ctx context.Context, habitIDs []uuid.UUID) ([]entity.HabitEntry, error) {
	result := make([]entity.HabitEntry, 0)
	if len(habitIDs) == 0 {
		return result, nil
	}
	rows, err := er.conn.Query(
		ctx,
		`SELECT id, habit_id, to_char(entry_date, 'YYYY-MM-DD'), completed, created_at
			FROM habit_entries WHERE habit_id = ANY($1) ORDER BY entry_date DESC;`,
		habitIDs,
	)
	if err != nil {
		return nil, errors.New("getting entries error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		entry := entity.HabitEntry{}
		err = rows.Scan(&entry.ID, &entry.HabitID, &entry.Date, &entry.Completed, &entry.CreatedAt)
		if err != nil {
			return nil, errors.New("entry row parsing error: " + err.Error())
		}
		result = append(result, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected entry rows error: " + err.Error())
	}
	return result, nil
}
