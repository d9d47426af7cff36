// Package queue defines message payloads exchanged over the message broker.
package queue

// Event names carried in BookingEvent.Event and the AMQP Type header.
const (
    EventBookingCreated       = "booking.created"
    EventBookingStatusChanged = "booking.status_changed"
)

// BookingEvent is published after a booking is created or changes status.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingEvent struct {
    Event          string `json:"event"`
    BookingID      uint64 `json:"booking_id"`
    TableID        uint64 `json:"table_id"`
    TimeslotID     uint64 `json:"timeslot_id"`
    UserID         uint64 `json:"user_id"`
    BookingDate    string `json:"booking_date"`
    Status         string `json:"status"`
    PreviousStatus string `json:"previous_status,omitempty"`
    OccurredAt     string `json:"occurred_at"`
}
