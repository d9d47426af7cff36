// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking service to distinguish between different failure scenarios
// without inspecting driver errors themselves.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup by primary key matches no row.
var ErrNotFound = errors.New("not found")

// ErrSlotTaken is returned when an active booking already holds the
// requested (table, timeslot, date) slot.
var ErrSlotTaken = errors.New("slot already booked")

// ErrStatusChanged is returned by a compare-and-set status update when the
// row no longer carries the expected status.
var ErrStatusChanged = errors.New("status changed concurrently")

// ErrTableNotFound, ErrTimeslotNotFound and ErrUserNotFound report a
// missing row referenced by a new booking.
var (
	ErrTableNotFound    = errors.New("table not found")
	ErrTimeslotNotFound = errors.New("timeslot not found")
	ErrUserNotFound     = errors.New("user not found")
)

// ErrEmailExists is returned when signup or a profile update collides with
// another account's email.
var ErrEmailExists = errors.New("email already exists")

const (
	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
)

// isMySQLError reports whether err carries the given server error number.
func isMySQLError(err error, number uint16) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == number
	}
	return false
}

// isDuplicate reports a unique key violation (MySQL 1062).
func isDuplicate(err error) bool {
	return isMySQLError(err, mysqlDuplicateEntry)
}
