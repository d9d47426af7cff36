package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/chanaka-devx/L-essence/internal/model"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type BookingCounter interface {
	Counter
	CountActive(ctx context.Context) (int64, error)
}

// StatsService aggregates dashboard counters.
type StatsService struct {
	users, tables, timeslots Counter
	bookings                 BookingCounter
	log                      logrus.FieldLogger
}

func NewStatsService(users, tables, timeslots Counter, bookings BookingCounter, log logrus.FieldLogger) *StatsService {
	return &StatsService{users: users, tables: tables, timeslots: timeslots, bookings: bookings, log: log}
}

func (s *StatsService) Stats(ctx context.Context) (model.Stats, error) {
	var st model.Stats
	steps := []struct {
		name string
		fn   func(context.Context) (int64, error)
		dst  *int64
	}{
		{"users", s.users.Count, &st.Users},
		{"tables", s.tables.Count, &st.Tables},
		{"timeslots", s.timeslots.Count, &st.Timeslots},
		{"bookings", s.bookings.Count, &st.Bookings},
		{"active bookings", s.bookings.CountActive, &st.ActiveBookings},
	}
	for _, step := range steps {
		n, err := step.fn(ctx)
		if err != nil {
			s.log.WithError(err).WithField("counter", step.name).Error("stats: count failed")
			return model.Stats{}, storage("count "+step.name, err)
		}
		*step.dst = n
	}
	return st, nil
}
