package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Context keys handlers set so that the request line names what was
// normalized.
const (
	ResourceTypeKey = "resource_type"
	FHIRVersionKey  = "fhir_version"
)

func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)
			if err != nil {
				// Let echo write the error response first so the logged
				// status is the one the client sees.
				c.Error(err)
			}

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}
			rid, _ := c.Get("request_id").(string)
			if rt, ok := c.Get(ResourceTypeKey).(string); ok {
				evt = evt.Str(ResourceTypeKey, rt)
			}
			if v, ok := c.Get(FHIRVersionKey).(string); ok {
				evt = evt.Str(FHIRVersionKey, v)
			}

			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return err
		}
	}
}
