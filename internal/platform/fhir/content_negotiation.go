package fhir

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Response formats a client can negotiate.
const (
	FormatJSON = "json"
	FormatHTML = "html"
)

// FormatKey is the echo context key holding the negotiated format.
const FormatKey = "format"

// ContentNegotiation picks the response format. The _format query parameter
// takes priority over the Accept header, and JSON is the default. XML and
// unknown formats are rejected with 406 Not Acceptable.
func ContentNegotiation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			format := FormatJSON
			if raw := c.QueryParam("_format"); raw != "" {
				f, ok := parseFormat(raw)
				if !ok {
					return notAcceptable("Unsupported _format value: " + raw)
				}
				format = f
			} else if accept := c.Request().Header.Get(echo.HeaderAccept); accept != "" {
				f, ok := negotiateAccept(accept)
				if !ok {
					return notAcceptable("Accept header does not include a supported content type. Use application/json or text/html.")
				}
				format = f
			}
			c.Set(FormatKey, format)
			return next(c)
		}
	}
}

// NegotiatedFormat returns the format chosen by ContentNegotiation, or
// FormatJSON when the middleware did not run.
func NegotiatedFormat(c echo.Context) string {
	if f, ok := c.Get(FormatKey).(string); ok {
		return f
	}
	return FormatJSON
}

func notAcceptable(msg string) error {
	return echo.NewHTTPError(http.StatusNotAcceptable, NotSupportedOutcome(msg))
}

// normalizeFormat lowercases and trims a format string, restoring the "+"
// that query-string decoding turns into a space ("application/fhir json").
func normalizeFormat(raw string) string {
	f := strings.TrimSpace(strings.ToLower(raw))
	f = strings.ReplaceAll(f, "fhir json", "fhir+json")
	f = strings.ReplaceAll(f, "xhtml xml", "xhtml+xml")
	return f
}

func parseFormat(raw string) (string, bool) {
	switch normalizeFormat(raw) {
	case "json", "application/json", "application/fhir+json":
		return FormatJSON, true
	case "html", "text/html", "application/xhtml+xml":
		return FormatHTML, true
	}
	return "", false
}

// negotiateAccept returns the format of the first supported media type in
// the Accept header. Quality values are ignored.
func negotiateAccept(accept string) (string, bool) {
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		switch mediaType {
		case "application/fhir+json", "application/json", "application/*", "*/*":
			return FormatJSON, true
		case "text/html", "application/xhtml+xml", "text/*":
			return FormatHTML, true
		}
	}
	return "", false
}
