package fhir

import (
	"fmt"
	"strings"
	"time"
)

// Display formatting for datatypes found in decoded resources. Each helper
// accepts the raw value (map, list or string) and returns "" when there is
// nothing to show.

// FormatCoding returns the display of a Coding, falling back to its code.
func FormatCoding(v interface{}) string {
	if d := GetString(v, "display"); d != "" {
		return d
	}
	return GetString(v, "code")
}

// FormatCodeableConcept returns the text of a CodeableConcept, falling back to
// the first coding. A list of concepts is joined with ", ".
func FormatCodeableConcept(v interface{}) string {
	if list, ok := AsSlice(v); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if s := FormatCodeableConcept(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	if text := GetString(v, "text"); text != "" {
		return text
	}
	return FormatCoding(Get(v, "coding.0"))
}

// FormatReferenceDisplay returns the display of a Reference, falling back to the
// literal reference.
func FormatReferenceDisplay(v interface{}) string {
	if d := GetString(v, "display"); d != "" {
		return d
	}
	return GetString(v, "reference")
}

// FormatAnnotation returns the text of an Annotation. A list is joined with
// "; ".
func FormatAnnotation(v interface{}) string {
	if list, ok := AsSlice(v); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if s := FormatAnnotation(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	if s, ok := v.(string); ok {
		return s
	}
	return GetString(v, "text")
}

var dateLayouts = []struct {
	layout string
	out    string
}{
	{time.RFC3339Nano, "2006-01-02 15:04"},
	{"2006-01-02T15:04:05", "2006-01-02 15:04"},
	{"2006-01-02", "2006-01-02"},
	{"2006-01", "Jan 2006"},
	{"2006", "2006"},
}

// FormatDate renders a FHIR date, dateTime or instant. Values that do not
// parse are returned unchanged.
func FormatDate(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%v", v)
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return t.Format(l.out)
		}
	}
	return s
}
