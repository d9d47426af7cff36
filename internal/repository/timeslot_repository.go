package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/chanaka-devx/L-essence/internal/model"
)

// TimeslotRepo reads the static list of daily windows.
type TimeslotRepo struct {
	db *sql.DB
}

func NewTimeslotRepo(db *sql.DB) *TimeslotRepo { return &TimeslotRepo{db: db} }

// List returns all timeslots ordered by start time.
func (r *TimeslotRepo) List(ctx context.Context) ([]model.Timeslot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT timeslot_id, start_time, end_time FROM timeslots ORDER BY start_time ASC, timeslot_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Timeslot, 0)
	for rows.Next() {
		var ts model.Timeslot
		if err := rows.Scan(&ts.ID, &ts.StartTime, &ts.EndTime); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// Exists reports whether a timeslot with the given id is present.
func (r *TimeslotRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM timeslots WHERE timeslot_id = ? LIMIT 1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *TimeslotRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM timeslots`)
}
