package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/chanaka-devx/L-essence/internal/middleware"
	"github.com/chanaka-devx/L-essence/internal/model"
	"github.com/chanaka-devx/L-essence/internal/service"
)

// BookingService is implemented by service.BookingManager.
type BookingService interface {
	CreateBooking(ctx context.Context, in service.CreateBookingInput) (model.Booking, error)
	ListAllBookings(ctx context.Context) ([]model.BookingDetail, error)
	ListBookingsForUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error)
	ListRecentBookings(ctx context.Context, limit int) ([]model.BookingDetail, error)
	UpdateStatus(ctx context.Context, bookingID uint64, rawStatus string) (model.Booking, error)
}

// BookingHandler serves booking creation, listings and status changes.
type BookingHandler struct {
	Bookings BookingService
	Log      logrus.FieldLogger
}

func NewBookingHandler(b BookingService, log logrus.FieldLogger) *BookingHandler {
	return &BookingHandler{Bookings: b, Log: log}
}

type createBookingReq struct {
	TableID    uint64 `json:"table_id" validate:"required,gt=0"`
	TimeslotID uint64 `json:"timeslot_id" validate:"required,gt=0"`
	Date       string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	UserID     uint64 `json:"user_id"` // admins may book on behalf of a customer
}

type updateStatusReq struct {
	Status string `json:"status" validate:"required"`
}

// Book creates a pending booking for the caller.  A customer may only book
// for themselves; an admin may pass user_id.
func (h *BookingHandler) Book(c echo.Context) error {
	callerID, ok := middleware.CurrentUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized", "unauthorized", nil)
	}
	var req createBookingReq
	if err := bindAndValidate(c, &req); err != nil {
		if ve, ok := err.(service.ValidationError); ok && ve.Msg == "" {
			if req.TableID != 0 && req.TimeslotID != 0 && req.Date != "" {
				// every field present, so only the date format can be wrong
				return badRequest(c, "booking_date must be YYYY-MM-DD", "booking_date")
			}
			ve.Msg = "All fields are required"
			err = ve
		}
		return respondError(c, h.Log, err)
	}

	owner := callerID
	if req.UserID != 0 && req.UserID != callerID {
		if middleware.CurrentRole(c) != model.RoleAdmin {
			return writeError(c, http.StatusForbidden, "forbidden", "cannot book on behalf of another user", nil)
		}
		owner = req.UserID
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.CreateBooking(ctx, service.CreateBookingInput{
		TableID:    req.TableID,
		TimeslotID: req.TimeslotID,
		UserID:     owner,
		Date:       req.Date,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Table booked successfully", "booking": b})
}

// ListAll returns every booking (admin).
func (h *BookingHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Bookings.ListAllBookings(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "bookings": out})
}

// ListMine returns the caller's bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized", "unauthorized", nil)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Bookings.ListBookingsForUser(ctx, uid)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if len(out) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "No bookings found", "bookings": out})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Recent returns the newest bookings (admin).  ?limit= overrides the
// default of five.
func (h *BookingHandler) Recent(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return badRequest(c, "limit must be a positive integer", "limit")
		}
		limit = n
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Bookings.ListRecentBookings(ctx, limit)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// UpdateStatus applies a lifecycle transition (admin).
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("booking_id"), 10, 64)
	if err != nil || id == 0 {
		return badRequest(c, "invalid booking id", "booking_id")
	}
	var req updateStatusReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking status updated successfully", "booking": b})
}
