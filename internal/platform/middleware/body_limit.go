package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/bytes"

	"github.com/ehr/fhirview/internal/platform/fhir"
)

const defaultLimitBytes = 1 << 20

// BodyLimit returns middleware that limits the request body size.
// defaultLimit applies to most endpoints; bundleLimit applies to POSTs on
// bundlePaths, since a Bundle carries many resources.
//
// Limits are human-readable sizes such as "512K", "1M" or "10MB". A bare
// number is bytes. K/M/G are decimal and Ki/Mi/Gi binary, as in echo. An
// unparsable value falls back to 1 MiB.
//
// When the limit is exceeded the middleware responds 413 with an
// OperationOutcome body.
func BodyLimit(defaultLimit, bundleLimit string, bundlePaths ...string) echo.MiddlewareFunc {
	defaultBytes := parseLimit(defaultLimit)
	bundleBytes := parseLimit(bundleLimit)
	bundles := make(map[string]bool, len(bundlePaths))
	for _, p := range bundlePaths {
		bundles[p] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}

			limit := defaultBytes
			if req.Method == http.MethodPost && bundles[req.URL.Path] {
				limit = bundleBytes
			}

			// Content-Length allows early rejection.
			if req.ContentLength > limit {
				return payloadTooLargeError(c, limit)
			}

			// Enforce the limit even when Content-Length is missing or wrong.
			req.Body = &limitedReadCloser{
				ReadCloser: req.Body,
				remaining:  limit,
				limit:      limit,
			}
			return next(c)
		}
	}
}

// limitedReadCloser fails reads once more than limit bytes have been read.
type limitedReadCloser struct {
	io.ReadCloser
	remaining int64
	limit     int64
	exceeded  bool
}

func (r *limitedReadCloser) Read(p []byte) (n int, err error) {
	if r.exceeded {
		return 0, tooLarge(r.limit)
	}

	// Read at most one byte past the limit to detect overflow.
	toRead := int64(len(p))
	if toRead > r.remaining+1 {
		toRead = r.remaining + 1
	}

	n, err = r.ReadCloser.Read(p[:toRead])
	r.remaining -= int64(n)

	if r.remaining < 0 {
		r.exceeded = true
		return 0, tooLarge(r.limit)
	}
	return n, err
}

func tooLarge(limit int64) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fhir.NewOperationOutcome(
		fhir.IssueSeverityError, fhir.IssueTypeTooCostly,
		fmt.Sprintf("Request body exceeds maximum allowed size of %d bytes", limit),
	))
}

func payloadTooLargeError(c echo.Context, limit int64) error {
	return c.JSON(http.StatusRequestEntityTooLarge, tooLarge(limit).Message)
}

func parseLimit(s string) int64 {
	n, err := bytes.Parse(s)
	if err != nil || n <= 0 {
		return defaultLimitBytes
	}
	return n
}
