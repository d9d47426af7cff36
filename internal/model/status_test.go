package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestParseStatusIsCaseInsensitive(t *testing.T) {
    cases := map[string]BookingStatus{
        "pending":      StatusPending,
        "Confirmed":    StatusConfirmed,
        " CANCELLED ":  StatusCancelled,
        "completed\n":  StatusCompleted,
    }
    for raw, want := range cases {
        got, err := ParseStatus(raw)
        require.NoError(t, err, raw)
        assert.Equal(t, want, got, raw)
    }
}

func TestParseStatusRejectsUnknown(t *testing.T) {
    for _, raw := range []string{"", "done", "canceled", "pending!"} {
        _, err := ParseStatus(raw)
        assert.ErrorIs(t, err, ErrUnknownStatus, raw)
    }
}

func TestCanTransition(t *testing.T) {
    allowed := [][2]BookingStatus{
        {StatusPending, StatusConfirmed},
        {StatusPending, StatusCancelled},
        {StatusConfirmed, StatusCompleted},
        {StatusConfirmed, StatusCancelled},
    }
    for _, p := range allowed {
        assert.True(t, CanTransition(p[0], p[1]), "%s -> %s", p[0], p[1])
    }

    for _, from := range AllStatuses() {
        for _, to := range AllStatuses() {
            isAllowed := false
            for _, p := range allowed {
                if p[0] == from && p[1] == to {
                    isAllowed = true
                }
            }
            assert.Equal(t, isAllowed, CanTransition(from, to), "%s -> %s", from, to)
        }
    }
}

func TestTerminalAndActive(t *testing.T) {
    assert.True(t, StatusCompleted.IsTerminal())
    assert.True(t, StatusCancelled.IsTerminal())
    assert.False(t, StatusPending.IsTerminal())
    assert.False(t, BookingStatus("bogus").IsTerminal())

    assert.True(t, StatusPending.IsActive())
    assert.True(t, StatusConfirmed.IsActive())
    assert.False(t, StatusCancelled.IsActive())
    assert.False(t, StatusCompleted.IsActive())

    for _, st := range ActiveStatuses() {
        assert.True(t, st.IsActive(), st)
    }
    assert.Equal(t, "('pending','confirmed')", ActiveStatusList())
}

func TestClockLabel(t *testing.T) {
    assert.Equal(t, "6:00 PM", ClockLabel("18:00:00"))
    assert.Equal(t, "9:30 AM", ClockLabel("09:30"))
    assert.Equal(t, "12:00 PM", ClockLabel("12:00:00"))
    assert.Equal(t, "noon", ClockLabel("noon"))
    assert.Equal(t, "6:00 PM - 7:30 PM", Timeslot{StartTime: "18:00:00", EndTime: "19:30:00"}.Label())
}
