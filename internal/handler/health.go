package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
    PingContext(ctx context.Context) error
}

// Health is a liveness probe.  It returns a plain text "ok" with 200.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Ready returns a readiness probe that also checks the database.
func Ready(db Pinger) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()
        if err := db.PingContext(ctx); err != nil {
            return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "database": "down"})
        }
        return c.JSON(http.StatusOK, echo.Map{"status": "ready", "database": "up"})
    }
}
