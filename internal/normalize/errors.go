package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ehr/fhirview/internal/platform/fhir"
)

var (
	// ErrUnsupportedVersion matches any *UnsupportedVersionError.
	ErrUnsupportedVersion = errors.New("unsupported FHIR version")
	// ErrUnsupportedResourceType matches any *UnsupportedResourceTypeError.
	ErrUnsupportedResourceType = errors.New("unsupported resource type")
	// ErrIncompleteRegistry matches any *IncompleteRegistryError.
	ErrIncompleteRegistry = errors.New("incomplete extractor registry")
)

// UnsupportedVersionError is returned when no version extractor is registered
// for the requested (resource type, version) pair.
type UnsupportedVersionError struct {
	ResourceType string
	Version      fhir.Version
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported FHIR version %q for %s", e.Version, e.ResourceType)
}

func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

// UnsupportedResourceTypeError is returned when the resource type has no
// registered extractors at all.
type UnsupportedResourceTypeError struct {
	ResourceType string
}

func (e *UnsupportedResourceTypeError) Error() string {
	return fmt.Sprintf("unsupported resource type %q", e.ResourceType)
}

func (e *UnsupportedResourceTypeError) Is(target error) bool {
	return target == ErrUnsupportedResourceType
}

// Missing names one (resource type, version) pair without an extractor.
type Missing struct {
	ResourceType string
	Version      fhir.Version
}

// IncompleteRegistryError lists every registered resource type that lacks an
// extractor for one of the supported versions.
type IncompleteRegistryError struct {
	Missing []Missing
}

func (e *IncompleteRegistryError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		parts[i] = m.ResourceType + "@" + m.Version.String()
	}
	return "missing version extractors: " + strings.Join(parts, ", ")
}

func (e *IncompleteRegistryError) Is(target error) bool {
	return target == ErrIncompleteRegistry
}
