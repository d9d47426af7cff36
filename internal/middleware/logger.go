package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"
)

// RequestLogger writes one structured line per request.  It expects echo's
// RequestID middleware to run first.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                // let echo's HTTPErrorHandler set the final status before logging
                c.Error(err)
            }

            req, res := c.Request(), c.Response()
            fields := logrus.Fields{
                "request_id": res.Header().Get(echo.HeaderXRequestID),
                "method":     req.Method,
                "path":       req.URL.Path,
                "route":      c.Path(),
                "status":     res.Status,
                "latency_ms": time.Since(start).Milliseconds(),
                "remote_ip":  c.RealIP(),
                "bytes_out":  res.Size,
            }
            if id, ok := CurrentUserID(c); ok {
                fields["user_id"] = id
            }
            entry := log.WithFields(fields)
            switch {
            case res.Status >= 500:
                entry.Error("request failed")
            case res.Status >= 400:
                entry.Warn("request rejected")
            default:
                entry.Info("request")
            }
            return nil
        }
    }
}
