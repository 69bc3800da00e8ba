package normalize

import "github.com/ehr/fhirview/internal/platform/fhir"

// Presence decides whether a candidate value counts as found.
type Presence int

const (
	// NonEmpty rejects nil, "", empty lists and empty objects.
	NonEmpty Presence = iota
	// NonNil accepts any value except nil, including "" and zero.
	NonNil
)

func (p Presence) accepts(v interface{}) bool {
	if p == NonNil {
		return v != nil
	}
	return !fhir.IsEmpty(v)
}

// Rule is an ordered list of candidate paths for one canonical field. The
// first candidate whose value satisfies Presence wins.
type Rule struct {
	Paths    []string
	Presence Presence
}

// FirstOf builds a rule that skips absent and empty candidates.
func FirstOf(paths ...string) Rule {
	return Rule{Paths: paths, Presence: NonEmpty}
}

// FirstDefined builds a rule that only skips absent and null candidates.
func FirstDefined(paths ...string) Rule {
	return Rule{Paths: paths, Presence: NonNil}
}

// Resolve returns the first accepted candidate value, or nil.
func (r Rule) Resolve(resource interface{}) interface{} {
	for _, path := range r.Paths {
		if v, ok := fhir.Lookup(resource, path); ok && r.Presence.accepts(v) {
			return v
		}
	}
	return nil
}

// ResolveString is Resolve restricted to string candidates. Non-string values
// are skipped rather than converted.
func (r Rule) ResolveString(resource interface{}) interface{} {
	for _, path := range r.Paths {
		if s, ok := fhir.Get(resource, path).(string); ok && r.Presence.accepts(s) {
			return s
		}
	}
	return nil
}
