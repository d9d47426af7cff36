package model

import "time"

// DateLayout is the wire and storage format of booking dates.
const DateLayout = "2006-01-02"

// Booking records a reservation of one table for one timeslot on one date.
// At most one booking per (TableID, TimeslotID, Date) may be active.
//
// Fields:
//  ID         – primary key identifier.
//  TableID    – reserved table.
//  TimeslotID – reserved daily window.
//  UserID     – customer who owns the booking.
//  Date       – calendar date formatted as YYYY-MM-DD.
//  Status     – lifecycle state, created as pending.
//  CreatedAt  – insertion timestamp (UTC).
type Booking struct {
    ID         uint64        `json:"booking_id"`   // bookings.booking_id
    TableID    uint64        `json:"table_id"`     // bookings.table_id
    TimeslotID uint64        `json:"timeslot_id"`  // bookings.timeslot_id
    UserID     uint64        `json:"user_id"`      // bookings.user_id
    Date       string        `json:"booking_date"` // bookings.booking_date
    Status     BookingStatus `json:"status"`       // bookings.status
    CreatedAt  time.Time     `json:"created_at"`   // bookings.created_at
}

// BookingDetail is a booking joined with its customer, table and timeslot
// for listings.
type BookingDetail struct {
    ID            uint64        `json:"booking_id"`
    Date          string        `json:"booking_date"`
    Status        BookingStatus `json:"status"`
    UserID        uint64        `json:"user_id"`
    CustomerName  string        `json:"customer_name"`
    CustomerEmail string        `json:"customer_email"`
    CustomerPhone string        `json:"customer_phone"`
    TableID       uint64        `json:"table_id"`
    TableLocation string        `json:"table_location"`
    TableSeats    uint32        `json:"table_seats"`
    TimeslotID    uint64        `json:"timeslot_id"`
    StartTime     string        `json:"start_time"`
    EndTime       string        `json:"end_time"`
    CreatedAt     time.Time     `json:"created_at"`
}

// Stats holds dashboard counters.
type Stats struct {
    Users          int64 `json:"users"`
    Tables         int64 `json:"tables"`
    Timeslots      int64 `json:"timeslots"`
    Bookings       int64 `json:"bookings"`
    ActiveBookings int64 `json:"active_bookings"`
}
