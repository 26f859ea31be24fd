package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/habitgrid/internal/error_values"
	"github.com/limbo/habitgrid/pkg/entity"
)

// DataRepository replaces a user's whole dataset, used by import.
type DataRepository struct {
	conn PgConnection
}

func NewDataRepo(conn PgConnection) *DataRepository {
	return &DataRepository{
		conn: conn,
	}
}

func (dr *DataRepository) ReplaceUserData(ctx context.Context, uid uuid.UUID, habits []entity.Habit, entries []entity.HabitEntry) error {
	tx, err := dr.conn.Begin(ctx)
	if err != nil {
		return errors.New("beginning import error: " + err.Error())
	}
	if err = replaceUserData(ctx, tx, uid, habits, entries); err != nil {
		rollback(ctx, tx)
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing import error: " + err.Error())
	}
	return nil
}

func replaceUserData(ctx context.Context, tx pgx.Tx, uid uuid.UUID, habits []entity.Habit, entries []entity.HabitEntry) error {
	_, err := tx.Exec(ctx, `DELETE FROM habit_entries WHERE habit_id IN (SELECT id FROM habits WHERE user_id = $1);`, uid)
	if err != nil {
		return errors.New("clearing entries error: " + err.Error())
	}
	if _, err = tx.Exec(ctx, `DELETE FROM habits WHERE user_id = $1;`, uid); err != nil {
		return errors.New("clearing habits error: " + err.Error())
	}
	for _, h := range habits {
		_, err = tx.Exec(ctx, `INSERT INTO habits (id, user_id, name, icon, color, created_at) VALUES ($1, $2, $3, $4, $5, $6);`,
			h.ID, uid, h.Name, h.Icon, h.Color, h.CreatedAt,
		)
		if err != nil {
			switch pgErrorCode(err) {
			case pgUniqueViolation:
				return errorvalues.ErrHabitExists
			case pgForeignKeyViolation:
				return errorvalues.ErrOwnerNotFound
			}
			return errors.New("importing habit error: " + err.Error())
		}
	}
	for _, e := range entries {
		_, err = tx.Exec(ctx, `INSERT INTO habit_entries (id, habit_id, entry_date, completed, created_at) VALUES ($1, $2, $3::date, $4, $5);`,
			e.ID, e.HabitID, e.Date, e.Completed, e.CreatedAt,
		)
		if err != nil {
			switch pgErrorCode(err) {
			case pgUniqueViolation:
				return errorvalues.ErrEntryExists
			case pgForeignKeyViolation:
				return errorvalues.ErrHabitNotFound
			}
			return errors.New("importing entry error: " + err.Error())
		}
	}
	return nil
}
