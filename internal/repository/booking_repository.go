package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/chanaka-devx/L-essence/internal/model"
)

// BookingRepo persists bookings.  Rows are never deleted; a booking only
// changes through UpdateStatus.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingRecord carries the columns supplied by the caller on insert.
type BookingRecord struct {
	TableID    uint64
	TimeslotID uint64
	UserID     uint64
	Date       string // YYYY-MM-DD
}

const selectBooking = `SELECT booking_id, table_id, timeslot_id, user_id,
                              DATE_FORMAT(booking_date, '%Y-%m-%d'), status, created_at
                       FROM bookings`

const selectDetail = `SELECT b.booking_id, DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.status,
                             u.user_id, u.name, u.email, u.phone,
                             t.table_id, t.location, t.seats,
                             ts.timeslot_id, ts.start_time, ts.end_time, b.created_at
                      FROM bookings b
                      JOIN users u ON u.user_id = b.user_id
                      JOIN tables t ON t.table_id = b.table_id
                      JOIN timeslots ts ON ts.timeslot_id = b.timeslot_id`

// CreateActive inserts a pending booking if and only if no active booking
// holds the same slot.  The table row is locked for the duration of the
// transaction so concurrent requests for any slot of that table serialize
// on the check; the uq_bookings_slot index rejects anything that slips
// through.  Returns ErrSlotTaken, ErrTableNotFound, ErrTimeslotNotFound or
// ErrUserNotFound for the corresponding business failures.
func (r *BookingRepo) CreateActive(ctx context.Context, rec BookingRecord) (model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var locked uint64
	err = tx.QueryRowContext(ctx, `SELECT table_id FROM tables WHERE table_id = ? FOR UPDATE`, rec.TableID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrTableNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}

	var slot uint64
	err = tx.QueryRowContext(ctx, `SELECT timeslot_id FROM timeslots WHERE timeslot_id = ?`, rec.TimeslotID).Scan(&slot)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrTimeslotNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}

	var active int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
         WHERE table_id = ? AND timeslot_id = ? AND booking_date = ?
           AND status IN `+model.ActiveStatusList(),
		rec.TableID, rec.TimeslotID, rec.Date).Scan(&active)
	if err != nil {
		return model.Booking{}, err
	}
	if active > 0 {
		return model.Booking{}, ErrSlotTaken
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (table_id, timeslot_id, user_id, booking_date, status) VALUES (?, ?, ?, ?, ?)`,
		rec.TableID, rec.TimeslotID, rec.UserID, rec.Date, string(model.StatusPending))
	if err != nil {
		switch {
		case isDuplicate(err):
			return model.Booking{}, ErrSlotTaken
		case isMySQLError(err, mysqlNoReferencedRow):
			return model.Booking{}, ErrUserNotFound
		}
		return model.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Booking{}, err
	}

	// Query back the full row to populate created_at
	b, err := scanBooking(tx.QueryRowContext(ctx, selectBooking+` WHERE booking_id = ?`, id))
	if err != nil {
		return model.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		if isDuplicate(err) {
			return model.Booking{}, ErrSlotTaken
		}
		return model.Booking{}, err
	}
	committed = true
	return b, nil
}

// GetByID loads a booking.  ErrNotFound is returned for unknown ids.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, selectBooking+` WHERE booking_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrNotFound
	}
	return b, err
}

// UpdateStatus moves a booking from one status to another only if it still
// carries from.  ErrNotFound is returned when the booking is gone and
// ErrStatusChanged when another writer got there first.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE booking_id = ? AND status = ?`,
		string(to), id, string(from))
	if err != nil {
		// reactivating would collide with another active booking
		if isDuplicate(err) {
			return ErrSlotTaken
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrStatusChanged
}

// ListAll returns every booking with customer, table and timeslot details,
// newest date first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.BookingDetail, error) {
	return r.listDetails(ctx, selectDetail+` ORDER BY b.booking_date DESC, b.booking_id DESC`)
}

// ListByUser returns the bookings owned by userID ordered by date
// descending then slot start ascending.  The slice is empty, never nil,
// when the user has no bookings.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error) {
	return r.listDetails(ctx,
		selectDetail+` WHERE b.user_id = ? ORDER BY b.booking_date DESC, ts.start_time ASC, b.booking_id ASC`,
		userID)
}

// Recent returns the latest limit bookings by date and slot start.
func (r *BookingRepo) Recent(ctx context.Context, limit int) ([]model.BookingDetail, error) {
	return r.listDetails(ctx,
		selectDetail+` ORDER BY b.booking_date DESC, ts.start_time DESC, b.booking_id DESC LIMIT ?`,
		limit)
}

// Count returns the total number of bookings.
func (r *BookingRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM bookings`)
}

// CountActive returns the number of pending or confirmed bookings.
func (r *BookingRepo) CountActive(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM bookings WHERE status IN `+model.ActiveStatusList())
}

func (r *BookingRepo) listDetails(ctx context.Context, q string, args ...any) ([]model.BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.BookingDetail, 0)
	for rows.Next() {
		var d model.BookingDetail
		var status string
		if err := rows.Scan(
			&d.ID, &d.Date, &status,
			&d.UserID, &d.CustomerName, &d.CustomerEmail, &d.CustomerPhone,
			&d.TableID, &d.TableLocation, &d.TableSeats,
			&d.TimeslotID, &d.StartTime, &d.EndTime, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		d.Status = model.BookingStatus(status)
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanBooking(row *sql.Row) (model.Booking, error) {
	var b model.Booking
	var status string
	if err := row.Scan(&b.ID, &b.TableID, &b.TimeslotID, &b.UserID, &b.Date, &status, &b.CreatedAt); err != nil {
		return model.Booking{}, err
	}
	b.Status = model.BookingStatus(status)
	return b, nil
}
