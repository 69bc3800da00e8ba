package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

// OutcomeForError maps an error to an HTTP status and an OperationOutcome
// body. Unsupported versions and resource types are client errors; a passed
// request deadline is a 504.
func OutcomeForError(err error) (int, *fhir.OperationOutcome) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		if oo, ok := he.Message.(*fhir.OperationOutcome); ok {
			return he.Code, oo
		}
		return he.Code, fhir.NewOperationOutcome(fhir.IssueSeverityError, issueTypeForStatus(he.Code), fmt.Sprint(he.Message))
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, fhir.NewOperationOutcome(fhir.IssueSeverityError, fhir.IssueTypeTimeout, "request deadline exceeded")
	case errors.Is(err, normalize.ErrUnsupportedVersion), errors.Is(err, normalize.ErrUnsupportedResourceType):
		return http.StatusBadRequest, fhir.NotSupportedOutcome(err.Error())
	default:
		return http.StatusInternalServerError, fhir.InternalErrorOutcome("internal server error")
	}
}

func issueTypeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return fhir.IssueTypeNotFound
	case http.StatusMethodNotAllowed, http.StatusUnsupportedMediaType:
		return fhir.IssueTypeNotSupported
	case http.StatusRequestEntityTooLarge:
		return fhir.IssueTypeTooCostly
	case http.StatusTooManyRequests:
		return fhir.IssueTypeThrottled
	case http.StatusGatewayTimeout:
		return fhir.IssueTypeTimeout
	}
	if status >= 500 {
		return fhir.IssueTypeException
	}
	return fhir.IssueTypeInvalid
}

// handleError renders every error as an OperationOutcome.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, outcome := OutcomeForError(err)
	if status >= 500 {
		s.logger.Error().Err(err).
			Str("request_id", fmt.Sprintf("%v", c.Get("request_id"))).
			Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, outcome)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("write error response")
	}
}
