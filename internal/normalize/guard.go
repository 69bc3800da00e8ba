package normalize

import "github.com/ehr/fhirview/internal/platform/fhir"

// Presence guards. Extractors compute these from the raw resource so that the
// renderer never has to look at the raw resource to decide what to show.

// HasPath reports whether path exists in resource, even when it holds null.
func HasPath(resource interface{}, path string) bool {
	return fhir.Has(resource, path)
}

// Truthy reports whether the value at path is present, not false and not
// empty. Numeric zero is truthy.
func Truthy(resource interface{}, path string) bool {
	v := fhir.Get(resource, path)
	if b, ok := v.(bool); ok {
		return b
	}
	return !fhir.IsEmpty(v)
}

// NonEmptyList reports whether the value at path is a list with at least one
// element.
func NonEmptyList(resource interface{}, path string) bool {
	list, ok := fhir.AsSlice(fhir.Get(resource, path))
	return ok && len(list) > 0
}

// AnyElementHas reports whether at least one element of the list at listPath
// has a non-empty value at subPath.
func AnyElementHas(resource interface{}, listPath, subPath string) bool {
	for _, item := range fhir.GetSlice(resource, listPath) {
		if !fhir.IsEmpty(fhir.Get(item, subPath)) {
			return true
		}
	}
	return false
}
