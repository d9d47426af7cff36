package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chanaka-devx/L-essence/internal/model"
)

// TableStore is the read side of the tables repository.
type TableStore interface {
	ListAvailable(ctx context.Context, date string, timeslotID uint64) ([]model.Table, error)
}

// TimeslotStore is the read side of the timeslots repository.
type TimeslotStore interface {
	List(ctx context.Context) ([]model.Timeslot, error)
	Exists(ctx context.Context, id uint64) (bool, error)
}

// AvailabilityResolver answers which tables are free for a date and
// timeslot.  It never writes.
type AvailabilityResolver struct {
	tables    TableStore
	timeslots TimeslotStore
	log       logrus.FieldLogger
}

func NewAvailabilityResolver(tables TableStore, timeslots TimeslotStore, log logrus.FieldLogger) *AvailabilityResolver {
	return &AvailabilityResolver{tables: tables, timeslots: timeslots, log: log}
}

// ListAvailableTables returns the tables with no active booking for
// (date, timeslotID), ordered by table id.  Input is validated before any
// booking query runs.
func (r *AvailabilityResolver) ListAvailableTables(ctx context.Context, date string, timeslotID uint64) ([]model.Table, error) {
	var bad []string
	day, ok := parseDate(date)
	if !ok {
		bad = append(bad, "date")
	}
	if timeslotID == 0 {
		bad = append(bad, "timeslot_id")
	}
	if len(bad) > 0 {
		return nil, invalid("required, date must be YYYY-MM-DD", bad...)
	}

	exists, err := r.timeslots.Exists(ctx, timeslotID)
	if err != nil {
		r.log.WithError(err).WithField("timeslot_id", timeslotID).Error("availability: timeslot lookup failed")
		return nil, storage("timeslot lookup", err)
	}
	if !exists {
		return nil, invalid("unknown timeslot", "timeslot_id")
	}

	tables, err := r.tables.ListAvailable(ctx, day, timeslotID)
	if err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{"date": day, "timeslot_id": timeslotID}).
			Error("availability: query failed")
		return nil, storage("availability query", err)
	}
	if tables == nil {
		tables = []model.Table{}
	}
	return tables, nil
}

// ListTimeslots returns every timeslot ordered by start time.
func (r *AvailabilityResolver) ListTimeslots(ctx context.Context) ([]model.Timeslot, error) {
	slots, err := r.timeslots.List(ctx)
	if err != nil {
		r.log.WithError(err).Error("availability: list timeslots failed")
		return nil, storage("list timeslots", err)
	}
	if slots == nil {
		slots = []model.Timeslot{}
	}
	return slots, nil
}

// parseDate accepts only YYYY-MM-DD calendar dates and returns the
// canonical form.
func parseDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	t, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return "", false
	}
	return t.Format(model.DateLayout), true
}
