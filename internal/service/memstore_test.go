package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/chanaka-devx/L-essence/internal/model"
	"github.com/chanaka-devx/L-essence/internal/queue"
	"github.com/chanaka-devx/L-essence/internal/repository"
)

// memStore mirrors the MySQL repositories in memory, including the
// single-active-booking rule and the compare-and-set status update.
type memStore struct {
	mu        sync.Mutex
	tables    []model.Table
	timeslots []model.Timeslot
	users     map[uint64]model.User
	bookings  []model.Booking
	nextID    uint64

	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		tables: []model.Table{
			{ID: 1, Location: "Window", Seats: 2},
			{ID: 2, Location: "Hall", Seats: 6},
			{ID: 3, Location: "Terrace", Seats: 4},
		},
		timeslots: []model.Timeslot{
			{ID: 1, StartTime: "12:00:00", EndTime: "13:30:00"},
			{ID: 2, StartTime: "18:00:00", EndTime: "19:30:00"},
		},
		users: map[uint64]model.User{
			7: {ID: 7, Name: "Nimal", Email: "nimal@example.com", Phone: "0771234567", Role: model.RoleCustomer},
			8: {ID: 8, Name: "Sita", Email: "sita@example.com", Role: model.RoleCustomer},
		},
	}
}

func (s *memStore) ListAvailable(_ context.Context, date string, timeslotID uint64) ([]model.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []model.Table
	for _, t := range s.tables {
		if !s.slotTaken(t.ID, timeslotID, date) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) List(context.Context) ([]model.Timeslot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	return append([]model.Timeslot(nil), s.timeslots...), nil
}

func (s *memStore) Exists(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return false, s.failWith
	}
	return s.hasTimeslot(id), nil
}

func (s *memStore) CreateActive(_ context.Context, rec repository.BookingRecord) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return model.Booking{}, s.failWith
	}
	if !s.hasTable(rec.TableID) {
		return model.Booking{}, repository.ErrTableNotFound
	}
	if !s.hasTimeslot(rec.TimeslotID) {
		return model.Booking{}, repository.ErrTimeslotNotFound
	}
	if s.slotTaken(rec.TableID, rec.TimeslotID, rec.Date) {
		return model.Booking{}, repository.ErrSlotTaken
	}
	if _, ok := s.users[rec.UserID]; !ok {
		return model.Booking{}, repository.ErrUserNotFound
	}
	s.nextID++
	b := model.Booking{
		ID: s.nextID, TableID: rec.TableID, TimeslotID: rec.TimeslotID, UserID: rec.UserID,
		Date: rec.Date, Status: model.StatusPending, CreatedAt: time.Now().UTC(),
	}
	s.bookings = append(s.bookings, b)
	return b, nil
}

func (s *memStore) GetByID(_ context.Context, id uint64) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return model.Booking{}, s.failWith
	}
	for _, b := range s.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Booking{}, repository.ErrNotFound
}

func (s *memStore) UpdateStatus(_ context.Context, id uint64, from, to model.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID != id {
			continue
		}
		if s.bookings[i].Status != from {
			return repository.ErrStatusChanged
		}
		s.bookings[i].Status = to
		return nil
	}
	return repository.ErrNotFound
}

func (s *memStore) ListAll(context.Context) ([]model.BookingDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := s.details(func(model.Booking) bool { return true })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memStore) ListByUser(_ context.Context, userID uint64) ([]model.BookingDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	// nil on purpose: the manager must normalize it
	out := s.details(func(b model.Booking) bool { return b.UserID == userID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (s *memStore) Recent(ctx context.Context, limit int) ([]model.BookingDetail, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *memStore) details(keep func(model.Booking) bool) []model.BookingDetail {
	var out []model.BookingDetail
	for _, b := range s.bookings {
		if !keep(b) {
			continue
		}
		u := s.users[b.UserID]
		d := model.BookingDetail{
			ID: b.ID, Date: b.Date, Status: b.Status, UserID: b.UserID,
			CustomerName: u.Name, CustomerEmail: u.Email, CustomerPhone: u.Phone,
			TableID: b.TableID, TimeslotID: b.TimeslotID, CreatedAt: b.CreatedAt,
		}
		for _, t := range s.tables {
			if t.ID == b.TableID {
				d.TableLocation, d.TableSeats = t.Location, t.Seats
			}
		}
		for _, ts := range s.timeslots {
			if ts.ID == b.TimeslotID {
				d.StartTime, d.EndTime = ts.StartTime, ts.EndTime
			}
		}
		out = append(out, d)
	}
	return out
}

func (s *memStore) slotTaken(tableID, timeslotID uint64, date string) bool {
	for _, b := range s.bookings {
		if b.TableID == tableID && b.TimeslotID == timeslotID && b.Date == date && b.Status.IsActive() {
			return true
		}
	}
	return false
}

func (s *memStore) hasTable(id uint64) bool {
	for _, t := range s.tables {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s *memStore) hasTimeslot(id uint64) bool {
	for _, ts := range s.timeslots {
		if ts.ID == id {
			return true
		}
	}
	return false
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Event)
	}
	return out
}

var errDriver = errors.New("dial tcp 10.0.0.5:3306: connection refused")
