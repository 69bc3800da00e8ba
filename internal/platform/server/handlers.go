package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
	"github.com/ehr/fhirview/internal/platform/middleware"
	"github.com/ehr/fhirview/pkg/pagination"
)

// anyResourceType in the normalize path means "use the body's resourceType".
const anyResourceType = "-"

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"fhirVersion": s.version,
		"types":       s.registry.Types(),
	})
}

// normalizeResource handles POST /normalize/:resourceType?fhirVersion=.
func (s *Server) normalizeResource(c echo.Context) error {
	res, err := decodeResource(c)
	if err != nil {
		return err
	}

	resourceType := c.Param("resourceType")
	bodyType := fhir.GetString(res, "resourceType")
	switch {
	case resourceType == anyResourceType:
		if bodyType == "" {
			return echo.NewHTTPError(http.StatusBadRequest, fhir.RequiredFieldOutcome("resourceType"))
		}
		resourceType = bodyType
	case bodyType != "" && bodyType != resourceType:
		return echo.NewHTTPError(http.StatusBadRequest, fhir.NewOperationOutcome(
			fhir.IssueSeverityError, fhir.IssueTypeInvalid,
			fmt.Sprintf("body resourceType %q does not match %q", bodyType, resourceType),
		))
	}

	rec, err := s.normalizeRecord(c, resourceType, res)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// renderNarrative handles POST /narrative?fhirVersion=. With an HTML format
// negotiated the bare XHTML div is returned instead of the text element.
func (s *Server) renderNarrative(c echo.Context) error {
	res, err := decodeResource(c)
	if err != nil {
		return err
	}
	resourceType := fhir.GetString(res, "resourceType")
	if resourceType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, fhir.RequiredFieldOutcome("resourceType"))
	}

	rec, err := s.normalizeRecord(c, resourceType, res)
	if err != nil {
		return err
	}
	if fhir.NegotiatedFormat(c) == fhir.FormatHTML {
		return c.HTML(http.StatusOK, s.narratives.Div(rec))
	}
	return c.JSON(http.StatusOK, s.narratives.Generate(rec))
}

type bundleEntry struct {
	Index   int                    `json:"index"`
	FullURL string                 `json:"fullUrl,omitempty"`
	Record  *normalize.Record      `json:"record"`
	Text    map[string]interface{} `json:"text,omitempty"`
}

type bundleIssue struct {
	Index        int                    `json:"index"`
	FullURL      string                 `json:"fullUrl,omitempty"`
	ResourceType string                 `json:"resourceType,omitempty"`
	Outcome      *fhir.OperationOutcome `json:"outcome"`
}

type bundleResponse struct {
	*pagination.Response
	Issues []bundleIssue `json:"issues"`
}

// bundle handles POST /bundle?fhirVersion=&_count=&_offset=&_narrative=.
// Paging is over the Bundle's resource entries. Entries on the page that
// cannot be normalized are reported as issues. Work stops between entries
// once the request context is done.
func (s *Server) bundle(c echo.Context) error {
	res, err := decodeResource(c)
	if err != nil {
		return err
	}
	if !fhir.IsBundle(res) {
		return echo.NewHTTPError(http.StatusBadRequest, fhir.StructureOutcome("request body is not a Bundle"))
	}
	withText, _ := strconv.ParseBool(c.QueryParam("_narrative"))

	entries := fhir.BundleEntries(res)
	page := pagination.FromContext(c)
	start, end := page.Window(len(entries))
	version := s.versionParam(c)
	c.Set(middleware.FHIRVersionKey, version.String())

	data := make([]bundleEntry, 0, end-start)
	issues := []bundleIssue{}
	ctx := c.Request().Context()
	for _, entry := range entries[start:end] {
		if err := ctx.Err(); err != nil {
			return err
		}
		resourceType := fhir.GetString(entry.Resource, "resourceType")
		rec, err := s.registry.Normalize(resourceType, version, entry.Resource, normalize.WithMetadata(s.metadata))
		if err != nil {
			issues = append(issues, bundleIssue{
				Index:        entry.Index,
				FullURL:      entry.FullURL,
				ResourceType: resourceType,
				Outcome:      entryOutcome(entry.Index, err),
			})
			continue
		}
		be := bundleEntry{Index: entry.Index, FullURL: entry.FullURL, Record: rec}
		if withText {
			be.Text = s.narratives.Generate(rec)
		}
		data = append(data, be)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	resp := pagination.NewResponse(data, len(entries), page.Limit, page.Offset)
	base := c.Request().URL.Path + "?fhirVersion=" + version.String()
	if withText {
		base += "&_narrative=true"
	}
	resp.Links = page.Links(base, len(entries))

	return c.JSON(http.StatusOK, bundleResponse{Response: resp, Issues: issues})
}

// entryOutcome locates each issue of err's outcome at the failing entry.
func entryOutcome(index int, err error) *fhir.OperationOutcome {
	_, outcome := OutcomeForError(err)
	location := fmt.Sprintf("Bundle.entry[%d].resource", index)
	b := fhir.NewOutcomeBuilder()
	for _, issue := range outcome.Issue {
		b.AddIssueWithLocation(issue.Severity, issue.Code, issue.Diagnostics, location)
	}
	return b.Build()
}

func (s *Server) normalizeRecord(c echo.Context, resourceType string, res map[string]interface{}) (*normalize.Record, error) {
	version := s.versionParam(c)
	c.Set(middleware.ResourceTypeKey, resourceType)
	c.Set(middleware.FHIRVersionKey, version.String())
	return s.registry.Normalize(resourceType, version, res, normalize.WithMetadata(s.metadata))
}

// versionParam returns the fhirVersion query parameter, or the configured
// default.
func (s *Server) versionParam(c echo.Context) fhir.Version {
	if v := c.QueryParam("fhirVersion"); v != "" {
		return fhir.ParseVersion(v)
	}
	return s.version
}

// decodeResource reads the request body as a JSON object.
func decodeResource(c echo.Context) (map[string]interface{}, error) {
	var res map[string]interface{}
	if err := json.NewDecoder(c.Request().Body).Decode(&res); err != nil {
		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			return nil, he
		case errors.Is(err, io.EOF):
			return nil, echo.NewHTTPError(http.StatusBadRequest, fhir.StructureOutcome("request body is empty"))
		default:
			return nil, echo.NewHTTPError(http.StatusBadRequest, fhir.StructureOutcome("invalid JSON: "+err.Error()))
		}
	}
	if res == nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fhir.StructureOutcome("request body must be a JSON object"))
	}
	return res, nil
}
