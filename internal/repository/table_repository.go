package repository

import (
	"context"
	"database/sql"

	"github.com/chanaka-devx/L-essence/internal/model"
)

// TableRepo reads dining tables.  Table CRUD is handled outside this
// service; only the queries the reservation flow needs live here.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// ListAvailable returns every table with no active booking for the exact
// (date, timeslot) pair, ordered by table id.  date must already be in
// YYYY-MM-DD form.
func (r *TableRepo) ListAvailable(ctx context.Context, date string, timeslotID uint64) ([]model.Table, error) {
	q := `SELECT t.table_id, t.location, t.seats
               FROM tables t
               WHERE t.table_id NOT IN (
                   SELECT b.table_id FROM bookings b
                   WHERE b.booking_date = ? AND b.timeslot_id = ?
                     AND b.status IN ` + model.ActiveStatusList() + `
               )
               ORDER BY t.table_id ASC`
	rows, err := r.db.QueryContext(ctx, q, date, timeslotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.Location, &t.Seats); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count returns the number of tables.
func (r *TableRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM tables`)
}

// countRows runs a single-value COUNT query.
func countRows(ctx context.Context, db *sql.DB, q string, args ...any) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
