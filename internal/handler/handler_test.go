package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/chanaka-devx/L-essence/internal/config"
	"github.com/chanaka-devx/L-essence/internal/middleware"
	"github.com/chanaka-devx/L-essence/internal/model"
	"github.com/chanaka-devx/L-essence/internal/repository"
	"github.com/chanaka-devx/L-essence/internal/service"
	"github.com/chanaka-devx/L-essence/internal/utils"
)

// ----- stubs -----

type stubBookings struct {
	created   service.CreateBookingInput
	createErr error
	list      []model.BookingDetail
	listErr   error
	limit     int
	updateErr error
}

func (s *stubBookings) CreateBooking(_ context.Context, in service.CreateBookingInput) (model.Booking, error) {
	s.created = in
	if s.createErr != nil {
		return model.Booking{}, s.createErr
	}
	return model.Booking{ID: 41, TableID: in.TableID, TimeslotID: in.TimeslotID, UserID: in.UserID, Date: in.Date, Status: model.StatusPending}, nil
}

func (s *stubBookings) ListAllBookings(context.Context) ([]model.BookingDetail, error) {
	return s.list, s.listErr
}

func (s *stubBookings) ListBookingsForUser(context.Context, uint64) ([]model.BookingDetail, error) {
	return s.list, s.listErr
}

func (s *stubBookings) ListRecentBookings(_ context.Context, limit int) ([]model.BookingDetail, error) {
	s.limit = limit
	return s.list, s.listErr
}

func (s *stubBookings) UpdateStatus(_ context.Context, id uint64, raw string) (model.Booking, error) {
	if s.updateErr != nil {
		return model.Booking{}, s.updateErr
	}
	st, _ := model.ParseStatus(raw)
	return model.Booking{ID: id, Status: st}, nil
}

type stubAvailability struct {
	tables []model.Table
	err    error
}

func (s stubAvailability) ListAvailableTables(context.Context, string, uint64) ([]model.Table, error) {
	return s.tables, s.err
}

func (s stubAvailability) ListTimeslots(context.Context) ([]model.Timeslot, error) {
	return []model.Timeslot{{ID: 2, StartTime: "18:00:00", EndTime: "19:30:00"}}, s.err
}

type stubUsers struct {
	users   map[string]model.User
	nextID  uint64
	updated bool
}

func (s *stubUsers) Create(_ context.Context, u repository.NewUser, cost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if _, ok := s.users[email]; ok {
		return 0, repository.ErrEmailExists
	}
	hash, err := utils.HashPassword(u.Password, cost)
	if err != nil {
		return 0, err
	}
	s.nextID++
	s.users[email] = model.User{ID: s.nextID, Name: u.Name, Email: email, PasswordHash: hash, Role: u.Role}
	return s.nextID, nil
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *stubUsers) UpdateProfile(_ context.Context, id uint64, _, _, _ string) error {
	if _, err := s.GetByID(context.Background(), id); err != nil {
		return err
	}
	s.updated = true
	return nil
}

// ----- helpers -----

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewRequestValidator()
	return e
}

func asUser(id uint64, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxUserID, id)
			c.Set(middleware.CtxRole, role)
			return next(c)
		}
	}
}

func do(e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

// ----- availability -----

func TestAvailableTablesRequiresQueryParams(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	e := newEcho()
	h := NewPublicHandler(stubAvailability{}, log)
	e.GET("/api/tables/available", h.AvailableTables)

	rec, body := do(e, http.MethodGet, "/api/tables/available?date=2025-09-01", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing date or timeslot_id query parameters", body["error"])
	assert.Equal(t, []any{"timeslot_id"}, body["fields"])

	rec, _ = do(e, http.MethodGet, "/api/tables/available?date=2025-09-01&timeslot_id=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailableTablesSuccess(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	e := newEcho()
	h := NewPublicHandler(stubAvailability{tables: []model.Table{{ID: 1, Location: "Window", Seats: 2}}}, log)
	e.GET("/api/tables/available", h.AvailableTables)

	rec, _ := do(e, http.MethodGet, "/api/tables/available?date=2025-09-01&timeslot_id=2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"availableTables":[{"table_id":1,"location":"Window","seats":2}]}`, rec.Body.String())
}

func TestAvailableTablesValidationFromService(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	e := newEcho()
	h := NewPublicHandler(stubAvailability{err: service.ValidationError{Fields: []string{"date"}, Msg: "must be YYYY-MM-DD"}}, log)
	e.GET("/api/tables/available", h.AvailableTables)

	rec, body := do(e, http.MethodGet, "/api/tables/available?date=01-09-2025&timeslot_id=2", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", body["code"])
}

func TestTimeslotsCarryLabels(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	e := newEcho()
	e.GET("/api/timeslots", NewPublicHandler(stubAvailability{}, log).Timeslots)

	rec, body := do(e, http.MethodGet, "/api/timeslots", "")
	require.Equal(t, http.StatusOK, rec.Code)
	slots := body["timeslots"].([]any)
	require.Len(t, slots, 1)
	slot := slots[0].(map[string]any)
	assert.Equal(t, "6:00 PM", slot["start_label"])
	assert.Equal(t, "6:00 PM - 7:30 PM", slot["label"])
}

// ----- bookings -----

func bookingEcho(stub *stubBookings, uid uint64, role string) *echo.Echo {
	log, _ := logtest.NewNullLogger()
	e := newEcho()
	h := NewBookingHandler(stub, log)
	who := asUser(uid, role)
	e.POST("/api/bookings/book", h.Book, who)
	e.GET("/api/users/me/bookings", h.ListMine, who)
	e.GET("/api/bookings/all", h.ListAll, who)
	e.GET("/api/admin/last-bookings", h.Recent, who)
	e.PUT("/api/bookings/:booking_id/status", h.UpdateStatus, who)
	return e
}

func TestBookUsesCallerIdentity(t *testing.T) {
	stub := &stubBookings{}
	e := bookingEcho(stub, 7, model.RoleCustomer)

	rec, body := do(e, http.MethodPost, "/api/bookings/book", `{"table_id":3,"timeslot_id":2,"booking_date":"2025-09-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Table booked successfully", body["message"])
	assert.Equal(t, uint64(7), stub.created.UserID)
	booking := body["booking"].(map[string]any)
	assert.Equal(t, "pending", booking["status"])
}

func TestBookMissingFields(t *testing.T) {
	stub := &stubBookings{}
	e := bookingEcho(stub, 7, model.RoleCustomer)

	rec, body := do(e, http.MethodPost, "/api/bookings/book", `{"table_id":3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "All fields are required")
	assert.ElementsMatch(t, []any{"timeslot_id", "booking_date"}, body["fields"])
	assert.Zero(t, stub.created.TableID)
}

func TestBookMalformedDate(t *testing.T) {
	stub := &stubBookings{}
	e := bookingEcho(stub, 7, model.RoleCustomer)

	rec, body := do(e, http.MethodPost, "/api/bookings/book", `{"table_id":3,"timeslot_id":2,"booking_date":"01/09/2025"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "booking_date must be YYYY-MM-DD", body["error"])
	assert.Equal(t, []any{"booking_date"}, body["fields"])
	assert.Zero(t, stub.created.TableID)
}

func TestBookConflict(t *testing.T) {
	stub := &stubBookings{createErr: service.ConflictError{Msg: service.MsgSlotTaken}}
	e := bookingEcho(stub, 7, model.RoleCustomer)

	rec, body := do(e, http.MethodPost, "/api/bookings/book", `{"table_id":3,"timeslot_id":2,"booking_date":"2025-09-01"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Table already booked for this slot", body["error"])
	assert.Equal(t, "conflict", body["code"])
}

func TestBookOnBehalfOfAnotherUser(t *testing.T) {
	stub := &stubBookings{}
	payload := `{"table_id":3,"timeslot_id":2,"booking_date":"2025-09-01","user_id":9}`

	rec, _ := do(bookingEcho(stub, 7, model.RoleCustomer), http.MethodPost, "/api/bookings/book", payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(bookingEcho(stub, 1, model.RoleAdmin), http.MethodPost, "/api/bookings/book", payload)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(9), stub.created.UserID)
}

func TestBookStorageErrorIsGeneric(t *testing.T) {
	stub := &stubBookings{createErr: service.StorageError{Op: "create booking", Err: errors.New("Error 1205: Lock wait timeout")}}
	e := bookingEcho(stub, 7, model.RoleCustomer)

	rec, body := do(e, http.MethodPost, "/api/bookings/book", `{"table_id":3,"timeslot_id":2,"booking_date":"2025-09-01"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, MsgServerError, body["error"])
	assert.NotContains(t, rec.Body.String(), "1205")
}

func TestListMineEmpty(t *testing.T) {
	e := bookingEcho(&stubBookings{list: []model.BookingDetail{}}, 7, model.RoleCustomer)

	rec, _ := do(e, http.MethodGet, "/api/users/me/bookings", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"No bookings found","bookings":[]}`, rec.Body.String())
}

func TestListAllAndRecent(t *testing.T) {
	stub := &stubBookings{list: []model.BookingDetail{{ID: 1, Date: "2025-09-01", Status: model.StatusConfirmed, CreatedAt: time.Unix(0, 0).UTC()}}}
	e := bookingEcho(stub, 1, model.RoleAdmin)

	rec, body := do(e, http.MethodGet, "/api/bookings/all", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["bookings"], 1)

	rec, body = do(e, http.MethodGet, "/api/admin/last-bookings?limit=3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, stub.limit)
	assert.NotContains(t, body, "success")
	assert.Len(t, body["bookings"], 1)

	rec, _ = do(e, http.MethodGet, "/api/admin/last-bookings?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusResponses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		path   string
		body   string
		status int
		code   string
	}{
		{"ok", nil, "/api/bookings/41/status", `{"status":"Confirmed"}`, http.StatusOK, ""},
		{"bad id", nil, "/api/bookings/abc/status", `{"status":"confirmed"}`, http.StatusBadRequest, "validation_error"},
		{"missing status", nil, "/api/bookings/41/status", `{}`, http.StatusBadRequest, "validation_error"},
		{"not found", service.NotFoundError{Resource: "Booking"}, "/api/bookings/41/status", `{"status":"confirmed"}`, http.StatusNotFound, "not_found"},
		{"transition", service.TransitionError{From: model.StatusCompleted, To: model.StatusPending}, "/api/bookings/41/status", `{"status":"pending"}`, http.StatusConflict, "invalid_transition"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := bookingEcho(&stubBookings{updateErr: tc.err}, 1, model.RoleAdmin)
			rec, body := do(e, http.MethodPut, tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code)
			if tc.code != "" {
				assert.Equal(t, tc.code, body["code"])
				return
			}
			assert.Equal(t, "Booking status updated successfully", body["message"])
			assert.Equal(t, "confirmed", body["booking"].(map[string]any)["status"])
		})
	}
}

// ----- auth -----

func authEcho(users *stubUsers, uid uint64) *echo.Echo {
	log, _ := logtest.NewNullLogger()
	e := newEcho()
	h := NewAuthHandler(config.Config{JWTSecret: "s3cret", AccessTTLMin: 60, BcryptCost: bcrypt.MinCost}, users, log)
	e.POST("/signup", h.Signup)
	e.POST("/login", h.Login)
	e.GET("/me", h.Me, asUser(uid, model.RoleCustomer))
	e.PUT("/me", h.UpdateMe, asUser(uid, model.RoleCustomer))
	return e
}

func TestSignupAndLogin(t *testing.T) {
	users := &stubUsers{users: map[string]model.User{}}
	e := authEcho(users, 1)

	rec, body := do(e, http.MethodPost, "/signup", `{"name":"Nimal","email":"Nimal@Example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "customer", body["role"])
	claims, err := utils.ParseAccessToken("s3cret", body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.UserID)

	rec, _ = do(e, http.MethodPost, "/signup", `{"email":"nimal@example.com","password":"hunter22"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, body = do(e, http.MethodPost, "/login", `{"email":"nimal@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["token"])

	rec, body = do(e, http.MethodPost, "/login", `{"email":"nimal@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", body["error"])

	rec, _ = do(e, http.MethodPost, "/login", `{"email":"ghost@example.com","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	e := authEcho(&stubUsers{users: map[string]model.User{}}, 1)

	rec, body := do(e, http.MethodPost, "/signup", `{"email":"not-an-email","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []any{"email", "password"}, body["fields"])
}

func TestProfile(t *testing.T) {
	users := &stubUsers{users: map[string]model.User{
		"nimal@example.com": {ID: 7, Name: "Nimal", Email: "nimal@example.com", Phone: "077", Role: model.RoleCustomer},
	}}

	rec, body := do(authEcho(users, 7), http.MethodGet, "/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Nimal", body["name"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec, _ = do(authEcho(users, 7), http.MethodPut, "/me", `{"name":"N","email":"n@example.com","phone":"1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, users.updated)

	rec, _ = do(authEcho(users, 7), http.MethodPut, "/me", `{"name":"N"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(authEcho(users, 99), http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ----- admin / health -----

type stubStats struct{ err error }

func (s stubStats) Stats(context.Context) (model.Stats, error) {
	return model.Stats{Users: 3, Tables: 4, Timeslots: 2, Bookings: 5, ActiveBookings: 1}, s.err
}

func TestAdminStats(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	e := newEcho()
	e.GET("/stats", NewAdminHandler(stubStats{}, log).GetStats)

	rec, _ := do(e, http.MethodGet, "/stats", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":3,"tables":4,"timeslots":2,"bookings":5,"active_bookings":1}`, rec.Body.String())
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHealthAndReady(t *testing.T) {
	e := newEcho()
	e.GET("/healthz", Health)
	e.GET("/readyz", Ready(pinger{}))
	e.GET("/readyz-down", Ready(pinger{err: errors.New("down")}))

	rec, _ := do(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, "ok", rec.Body.String())
	rec, _ = do(e, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(e, http.MethodGet, "/readyz-down", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
