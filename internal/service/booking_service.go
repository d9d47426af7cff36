package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chanaka-devx/L-essence/internal/model"
	"github.com/chanaka-devx/L-essence/internal/queue"
	"github.com/chanaka-devx/L-essence/internal/repository"
)

// MsgSlotTaken is the conflict message returned when a slot already has an
// active booking.
const MsgSlotTaken = "Table already booked for this slot"

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 50
	publishTimeout     = 3 * time.Second
)

// BookingStore is the persistence contract of the booking manager.
type BookingStore interface {
	CreateActive(ctx context.Context, rec repository.BookingRecord) (model.Booking, error)
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error
	ListAll(ctx context.Context) ([]model.BookingDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error)
	Recent(ctx context.Context, limit int) ([]model.BookingDetail, error)
}

// EventPublisher receives a notification after every booking write.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// CreateBookingInput is the request to reserve one slot.
type CreateBookingInput struct {
	TableID    uint64
	TimeslotID uint64
	UserID     uint64
	Date       string
}

// BookingManager creates bookings and drives their status lifecycle.
type BookingManager struct {
	bookings BookingStore
	events   EventPublisher
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewBookingManager wires a manager.  A nil publisher disables events.
func NewBookingManager(bookings BookingStore, events EventPublisher, log logrus.FieldLogger) *BookingManager {
	if events == nil {
		events = NoopPublisher{}
	}
	return &BookingManager{bookings: bookings, events: events, log: log, now: time.Now}
}

// CreateBooking reserves (table, timeslot, date) for the user.  The new
// booking starts as pending.
func (m *BookingManager) CreateBooking(ctx context.Context, in CreateBookingInput) (model.Booking, error) {
	var bad []string
	if in.TableID == 0 {
		bad = append(bad, "table_id")
	}
	if in.TimeslotID == 0 {
		bad = append(bad, "timeslot_id")
	}
	if in.UserID == 0 {
		bad = append(bad, "user_id")
	}
	day, ok := parseDate(in.Date)
	if !ok {
		bad = append(bad, "booking_date")
	}
	if len(bad) > 0 {
		return model.Booking{}, invalid("All fields are required, booking_date must be YYYY-MM-DD", bad...)
	}

	b, err := m.bookings.CreateActive(ctx, repository.BookingRecord{
		TableID:    in.TableID,
		TimeslotID: in.TimeslotID,
		UserID:     in.UserID,
		Date:       day,
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrSlotTaken):
		return model.Booking{}, ConflictError{Msg: MsgSlotTaken, Err: err}
	case errors.Is(err, repository.ErrTableNotFound):
		return model.Booking{}, invalid("unknown table", "table_id")
	case errors.Is(err, repository.ErrTimeslotNotFound):
		return model.Booking{}, invalid("unknown timeslot", "timeslot_id")
	case errors.Is(err, repository.ErrUserNotFound):
		return model.Booking{}, invalid("unknown user", "user_id")
	default:
		m.log.WithError(err).WithFields(bookingFields(in.TableID, in.TimeslotID, day)).Error("booking: create failed")
		return model.Booking{}, storage("create booking", err)
	}

	m.log.WithFields(bookingFields(b.TableID, b.TimeslotID, b.Date)).
		WithField("booking_id", b.ID).Info("booking created")
	m.publish(ctx, queue.EventBookingCreated, b, "")
	return b, nil
}

// ListAllBookings returns every booking with customer and table details.
func (m *BookingManager) ListAllBookings(ctx context.Context) ([]model.BookingDetail, error) {
	out, err := m.bookings.ListAll(ctx)
	if err != nil {
		m.log.WithError(err).Error("booking: list all failed")
		return nil, storage("list bookings", err)
	}
	return nonNil(out), nil
}

// ListBookingsForUser returns the caller's bookings.  A user without
// bookings gets an empty slice and no error.
func (m *BookingManager) ListBookingsForUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error) {
	if userID == 0 {
		return nil, invalid("required", "user_id")
	}
	out, err := m.bookings.ListByUser(ctx, userID)
	if err != nil {
		m.log.WithError(err).WithField("user_id", userID).Error("booking: list for user failed")
		return nil, storage("list user bookings", err)
	}
	return nonNil(out), nil
}

// ListRecentBookings returns the newest bookings.  limit <= 0 means the
// default of five; values above fifty are capped.
func (m *BookingManager) ListRecentBookings(ctx context.Context, limit int) ([]model.BookingDetail, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	out, err := m.bookings.Recent(ctx, limit)
	if err != nil {
		m.log.WithError(err).Error("booking: recent failed")
		return nil, storage("recent bookings", err)
	}
	return nonNil(out), nil
}

// UpdateStatus moves a booking along the lifecycle graph.  rawStatus is
// matched case-insensitively.
func (m *BookingManager) UpdateStatus(ctx context.Context, bookingID uint64, rawStatus string) (model.Booking, error) {
	if bookingID == 0 {
		return model.Booking{}, invalid("required", "booking_id")
	}
	to, err := model.ParseStatus(rawStatus)
	if err != nil {
		return model.Booking{}, invalid("must be one of pending, confirmed, cancelled, completed", "status")
	}

	current, err := m.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Booking{}, NotFoundError{Resource: "Booking", Err: err}
	}
	if err != nil {
		m.log.WithError(err).WithField("booking_id", bookingID).Error("booking: load failed")
		return model.Booking{}, storage("load booking", err)
	}

	if !model.CanTransition(current.Status, to) {
		return model.Booking{}, TransitionError{From: current.Status, To: to}
	}

	err = m.bookings.UpdateStatus(ctx, bookingID, current.Status, to)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		return model.Booking{}, NotFoundError{Resource: "Booking", Err: err}
	case errors.Is(err, repository.ErrStatusChanged):
		return model.Booking{}, ConflictError{Msg: "booking status changed concurrently, reload and retry", Err: err}
	case errors.Is(err, repository.ErrSlotTaken):
		return model.Booking{}, ConflictError{Msg: MsgSlotTaken, Err: err}
	default:
		m.log.WithError(err).WithField("booking_id", bookingID).Error("booking: status update failed")
		return model.Booking{}, storage("update booking status", err)
	}

	previous := current.Status
	current.Status = to
	m.log.WithFields(logrus.Fields{"booking_id": bookingID, "from": previous, "to": to}).Info("booking status changed")
	m.publish(ctx, queue.EventBookingStatusChanged, current, previous)
	return current, nil
}

// publish never fails the caller; the write has already committed.
func (m *BookingManager) publish(ctx context.Context, name string, b model.Booking, previous model.BookingStatus) {
	ev := queue.BookingEvent{
		Event:          name,
		BookingID:      b.ID,
		TableID:        b.TableID,
		TimeslotID:     b.TimeslotID,
		UserID:         b.UserID,
		BookingDate:    b.Date,
		Status:         string(b.Status),
		PreviousStatus: string(previous),
		OccurredAt:     m.now().UTC().Format(time.RFC3339),
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := m.events.Publish(pctx, ev); err != nil {
		m.log.WithError(err).WithFields(logrus.Fields{"event": name, "booking_id": b.ID}).Warn("booking: event publish failed")
	}
}

func bookingFields(tableID, timeslotID uint64, date string) logrus.Fields {
	return logrus.Fields{"table_id": tableID, "timeslot_id": timeslotID, "booking_date": date}
}

func nonNil(in []model.BookingDetail) []model.BookingDetail {
	if in == nil {
		return []model.BookingDetail{}
	}
	return in
}
