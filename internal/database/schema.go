package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chanaka-devx/L-essence/internal/model"
)

// schema is applied in order; every statement is idempotent.
//
// bookings.active_slot is 1 while a booking is pending or confirmed and
// NULL otherwise.  MySQL unique indexes ignore NULLs, so uq_bookings_slot
// allows any number of cancelled or completed rows but a single active
// one per (table, timeslot, date).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id    BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name       VARCHAR(120) NOT NULL DEFAULT '',
		email      VARCHAR(190) NOT NULL,
		phone      VARCHAR(40)  NOT NULL DEFAULT '',
		password   VARCHAR(255) NOT NULL,
		role       ENUM('customer','admin') NOT NULL DEFAULT 'customer',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tables (
		table_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		location VARCHAR(120) NOT NULL DEFAULT '',
		seats    INT UNSIGNED NOT NULL,
		PRIMARY KEY (table_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS timeslots (
		timeslot_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		start_time  TIME NOT NULL,
		end_time    TIME NOT NULL,
		PRIMARY KEY (timeslot_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		booking_id   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		table_id     BIGINT UNSIGNED NOT NULL,
		timeslot_id  BIGINT UNSIGNED NOT NULL,
		user_id      BIGINT UNSIGNED NOT NULL,
		booking_date DATE NOT NULL,
		status       ENUM('pending','confirmed','cancelled','completed') NOT NULL DEFAULT 'pending',
		active_slot  TINYINT AS (IF(status IN ` + model.ActiveStatusList() + `, 1, NULL)) STORED,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (booking_id),
		UNIQUE KEY uq_bookings_slot (table_id, timeslot_id, booking_date, active_slot),
		KEY idx_bookings_date_slot (booking_date, timeslot_id),
		KEY idx_bookings_user (user_id),
		CONSTRAINT fk_bookings_table FOREIGN KEY (table_id) REFERENCES tables (table_id) ON DELETE RESTRICT,
		CONSTRAINT fk_bookings_timeslot FOREIGN KEY (timeslot_id) REFERENCES timeslots (timeslot_id) ON DELETE RESTRICT,
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users (user_id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the reservation tables when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
