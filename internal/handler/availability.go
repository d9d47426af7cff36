package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/chanaka-devx/L-essence/internal/model"
)

// AvailabilityService is implemented by service.AvailabilityResolver.
type AvailabilityService interface {
	ListAvailableTables(ctx context.Context, date string, timeslotID uint64) ([]model.Table, error)
	ListTimeslots(ctx context.Context) ([]model.Timeslot, error)
}

// PublicHandler exposes the unauthenticated reservation lookups.
type PublicHandler struct {
	Availability AvailabilityService
	Log          logrus.FieldLogger
}

func NewPublicHandler(a AvailabilityService, log logrus.FieldLogger) *PublicHandler {
	return &PublicHandler{Availability: a, Log: log}
}

type timeslotView struct {
	ID         uint64 `json:"timeslot_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	StartLabel string `json:"start_label"`
	EndLabel   string `json:"end_label"`
	Label      string `json:"label"`
}

// AvailableTables handles GET /api/tables/available?date=&timeslot_id=.
func (h *PublicHandler) AvailableTables(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	rawSlot := strings.TrimSpace(c.QueryParam("timeslot_id"))
	if date == "" || rawSlot == "" {
		return badRequest(c, "Missing date or timeslot_id query parameters", missing(date, rawSlot)...)
	}
	slot, err := strconv.ParseUint(rawSlot, 10, 64)
	if err != nil || slot == 0 {
		return badRequest(c, "timeslot_id must be a positive integer", "timeslot_id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tables, err := h.Availability.ListAvailableTables(ctx, date, slot)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "availableTables": tables})
}

// Timeslots handles GET /api/timeslots.
func (h *PublicHandler) Timeslots(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slots, err := h.Availability.ListTimeslots(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	out := make([]timeslotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, timeslotView{
			ID:         s.ID,
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			StartLabel: model.ClockLabel(s.StartTime),
			EndLabel:   model.ClockLabel(s.EndTime),
			Label:      s.Label(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "timeslots": out})
}

func missing(date, slot string) []string {
	var out []string
	if date == "" {
		out = append(out, "date")
	}
	if slot == "" {
		out = append(out, "timeslot_id")
	}
	return out
}
