package middleware

import (
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/invoice-dashboard/internal/logging"
)

// RequestLogger assigns each request an X-Request-ID (reusing an upstream
// one when present) and logs method, path, status and latency once the
// handler returns.
func RequestLogger() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            req := c.Request()

            requestID := req.Header.Get(echo.HeaderXRequestID)
            if requestID == "" {
                requestID = uuid.New().String()
            }
            c.Response().Header().Set(echo.HeaderXRequestID, requestID)

            err := next(c)
            if err != nil {
                // let the error handler write the status before logging it
                c.Error(err)
            }

            status := c.Response().Status
            log := logging.With("http")
            ev := log.Info()
            if status >= 500 {
                ev = log.Error().Err(err)
            }
            ev.Str("request_id", requestID).
                Str("method", req.Method).
                Str("path", req.URL.Path).
                Int("status", status).
                Dur("latency", time.Since(start)).
                Msg("request")
            return nil
        }
    }
}
