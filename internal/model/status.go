package model

import (
    "errors"
    "strings"
)

// BookingStatus is the lifecycle state of a booking.  The set is closed:
// values outside the constants below are rejected by ParseStatus.
type BookingStatus string

const (
    StatusPending   BookingStatus = "pending"
    StatusConfirmed BookingStatus = "confirmed"
    StatusCancelled BookingStatus = "cancelled"
    StatusCompleted BookingStatus = "completed"
)

// ErrUnknownStatus is returned by ParseStatus for values outside the enum.
var ErrUnknownStatus = errors.New("unknown booking status")

// transitions lists the allowed target states for every status.  Terminal
// states map to an empty set.
var transitions = map[BookingStatus][]BookingStatus{
    StatusPending:   {StatusConfirmed, StatusCancelled},
    StatusConfirmed: {StatusCompleted, StatusCancelled},
    StatusCompleted: nil,
    StatusCancelled: nil,
}

// AllStatuses returns the statuses in lifecycle order.
func AllStatuses() []BookingStatus {
    return []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}
}

// ParseStatus matches raw case-insensitively after trimming whitespace.
func ParseStatus(raw string) (BookingStatus, error) {
    s := BookingStatus(strings.ToLower(strings.TrimSpace(raw)))
    if _, ok := transitions[s]; !ok {
        return "", ErrUnknownStatus
    }
    return s, nil
}

func (s BookingStatus) String() string { return string(s) }

// Valid reports whether s is one of the four known statuses.
func (s BookingStatus) Valid() bool {
    _, ok := transitions[s]
    return ok
}

// IsActive reports whether a booking in this status holds its slot.
func (s BookingStatus) IsActive() bool {
    return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether no transition leaves s.
func (s BookingStatus) IsTerminal() bool {
    return s.Valid() && len(transitions[s]) == 0
}

// CanTransition reports whether from -> to is an edge of the lifecycle
// graph.  Self transitions are not edges.
func CanTransition(from, to BookingStatus) bool {
    for _, next := range transitions[from] {
        if next == to {
            return true
        }
    }
    return false
}

// ActiveStatuses returns the statuses that reserve a slot.
func ActiveStatuses() []BookingStatus {
    return []BookingStatus{StatusPending, StatusConfirmed}
}

// ActiveStatusList renders ActiveStatuses as a SQL list literal, e.g.
// ('pending','confirmed').  Every query and the schema build their active
// filter from it.
func ActiveStatusList() string {
    quoted := make([]string, 0, 2)
    for _, s := range ActiveStatuses() {
        quoted = append(quoted, "'"+string(s)+"'")
    }
    return "(" + strings.Join(quoted, ",") + ")"
}
