package model

import (
    "fmt"
    "strings"
    "time"
)

// Timeslot is a fixed daily window shared by every table and date.
// StartTime and EndTime hold the MySQL TIME text (HH:MM:SS).
type Timeslot struct {
    ID        uint64 `json:"timeslot_id"` // timeslots.timeslot_id
    StartTime string `json:"start_time"`  // timeslots.start_time
    EndTime   string `json:"end_time"`    // timeslots.end_time
}

// Label renders the window as "6:00 PM - 7:30 PM".
func (t Timeslot) Label() string {
    return fmt.Sprintf("%s - %s", ClockLabel(t.StartTime), ClockLabel(t.EndTime))
}

// ClockLabel converts "18:00:00" or "18:00" into "6:00 PM".  Values that
// do not parse are returned unchanged.
func ClockLabel(raw string) string {
    raw = strings.TrimSpace(raw)
    for _, layout := range []string{"15:04:05", "15:04"} {
        if t, err := time.Parse(layout, raw); err == nil {
            return t.Format("3:04 PM")
        }
    }
    return raw
}
