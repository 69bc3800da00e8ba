package normalize

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"

	"github.com/ehr/fhirview/internal/platform/fhir"
)

// Fields is a partial canonical record produced by one extractor.
type Fields map[string]interface{}

// Record is the canonical, version-independent view of one resource. Every
// field in the resource type's schema is present; absent values are nil.
//
// Values are shared with the raw resource rather than copied, so a Record and
// anything read from it must be treated as read-only.
type Record struct {
	ResourceType string
	Version      fhir.Version
	Meta         Metadata

	fields map[string]interface{}
}

// Get returns the value of a field and whether the field is in the schema.
func (r *Record) Get(name string) (interface{}, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Value returns the value of a field, or nil.
func (r *Record) Value(name string) interface{} {
	return r.fields[name]
}

// String returns a string field, or "".
func (r *Record) String(name string) string {
	s, _ := r.fields[name].(string)
	return s
}

// Bool returns a boolean field such as a presence flag, or false.
func (r *Record) Bool(name string) bool {
	b, _ := r.fields[name].(bool)
	return b
}

// List returns a list field as []interface{}, or nil.
func (r *Record) List(name string) []interface{} {
	l, _ := fhir.AsSlice(r.fields[name])
	return l
}

// Keys returns the field names in sorted order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fields returns a shallow copy of the field map.
func (r *Record) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Decode copies the fields into a typed view. Struct fields are matched by
// their json tag.
func (r *Record) Decode(out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("decode %s record: %w", r.ResourceType, err)
	}
	if err := dec.Decode(r.fields); err != nil {
		return fmt.Errorf("decode %s record: %w", r.ResourceType, err)
	}
	return nil
}

// MarshalJSON renders the record with its fields nested under "fields".
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ResourceType string                 `json:"resourceType"`
		Version      fhir.Version           `json:"fhirVersion"`
		Meta         Metadata               `json:"meta"`
		Fields       map[string]interface{} `json:"fields"`
	}{
		ResourceType: r.ResourceType,
		Version:      r.Version,
		Meta:         r.Meta,
		Fields:       r.fields,
	})
}
