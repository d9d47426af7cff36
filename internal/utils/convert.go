package utils

import (
    "encoding/json"
    "strconv"
    "strings"
)

// ToUint64 converts the loosely typed values found in JWT claims and echo
// context entries into a uint64.
func ToUint64(v any) (uint64, bool) {
    switch t := v.(type) {
    case uint64:
        return t, true
    case int:
        if t < 0 {
            return 0, false
        }
        return uint64(t), true
    case int64:
        if t < 0 {
            return 0, false
        }
        return uint64(t), true
    case float64:
        if t < 0 || t != float64(uint64(t)) {
            return 0, false
        }
        return uint64(t), true
    case json.Number:
        n, err := strconv.ParseUint(t.String(), 10, 64)
        return n, err == nil
    case string:
        n, err := strconv.ParseUint(strings.TrimSpace(t), 10, 64)
        return n, err == nil
    }
    return 0, false
}
