package normalize

import (
	"fmt"
	"sort"
	"sync"

	"dario.cat/mergo"

	"github.com/ehr/fhirview/internal/platform/fhir"
)

// Extractor derives a partial canonical record from a raw resource. It must
// not modify the resource and must return a map the caller may modify.
type Extractor func(resource map[string]interface{}) Fields

// Type describes one record type: its canonical schema and the extractor for
// the fields whose location does not depend on the FHIR version.
type Type struct {
	Name   string
	Fields []string
	Common Extractor
}

type registeredType struct {
	Type
	versions map[fhir.Version]Extractor
}

// Registry maps (resource type, version) pairs to extractors. Types and
// versions are registered at startup; Normalize is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*registeredType
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*registeredType)}
}

// RegisterType adds (or replaces) a record type. Version extractors already
// registered for the type are kept.
func (r *Registry) RegisterType(t Type) {
	if t.Name == "" {
		panic("normalize: record type without a name")
	}
	if t.Common == nil {
		t.Common = func(map[string]interface{}) Fields { return nil }
	}
	t.Fields = append([]string(nil), t.Fields...)

	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.types[t.Name]
	if !ok {
		rt = &registeredType{versions: make(map[fhir.Version]Extractor)}
		r.types[t.Name] = rt
	}
	rt.Type = t
}

// RegisterVersion adds (or replaces) the extractor for one version of a
// registered record type.
func (r *Registry) RegisterVersion(resourceType string, version fhir.Version, fn Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.types[resourceType]
	if !ok {
		panic(fmt.Sprintf("normalize: RegisterVersion(%s, %s) before RegisterType", resourceType, version))
	}
	rt.versions[version] = fn
}

// Types returns the registered record type names in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Versions returns the versions registered for resourceType, oldest first.
func (r *Registry) Versions(resourceType string) []fhir.Version {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.types[resourceType]
	if !ok {
		return nil
	}
	var out []fhir.Version
	for _, v := range fhir.SupportedVersions() {
		if _, ok := rt.versions[v]; ok {
			out = append(out, v)
		}
	}
	for v := range rt.versions {
		if !v.IsValid() {
			out = append(out, v)
		}
	}
	return out
}

// Schema returns the canonical field names of resourceType, sorted.
func (r *Registry) Schema(resourceType string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.types[resourceType]
	if !ok {
		return nil
	}
	out := append([]string(nil), rt.Fields...)
	sort.Strings(out)
	return out
}

// Validate checks that every registered type has an extractor for every
// supported version.
func (r *Registry) Validate() error {
	var missing []Missing
	for _, name := range r.Types() {
		r.mu.RLock()
		rt := r.types[name]
		for _, v := range fhir.SupportedVersions() {
			if _, ok := rt.versions[v]; !ok {
				missing = append(missing, Missing{ResourceType: name, Version: v})
			}
		}
		r.mu.RUnlock()
	}
	if len(missing) > 0 {
		return &IncompleteRegistryError{Missing: missing}
	}
	return nil
}

// Option configures a single Normalize call.
type Option func(*options)

type options struct {
	metadata MetadataTable
}

// WithMetadata sets the table used to fill Record.Meta.
func WithMetadata(table MetadataTable) Option {
	return func(o *options) { o.metadata = table }
}

// Normalize maps a raw resource of the given type and version to its canonical
// record. The common and version extractors both run against the same
// resource and their outputs are merged, the version extractor winning on a
// key collision.
func (r *Registry) Normalize(resourceType string, version fhir.Version, resource map[string]interface{}, opts ...Option) (*Record, error) {
	r.mu.RLock()
	rt, ok := r.types[resourceType]
	var (
		common, versioned Extractor
		names             []string
	)
	if ok {
		common, names = rt.Common, rt.Fields
		versioned = rt.versions[version]
	}
	r.mu.RUnlock()

	if !ok {
		return nil, &UnsupportedResourceTypeError{ResourceType: resourceType}
	}
	if versioned == nil {
		return nil, &UnsupportedVersionError{ResourceType: resourceType, Version: version}
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	merged := common(resource)
	if merged == nil {
		merged = Fields{}
	}
	if specific := versioned(resource); len(specific) > 0 {
		// Values may be sub-trees of the raw resource; dropping colliding keys
		// first keeps mergo from merging into them.
		for k := range specific {
			delete(merged, k)
		}
		if err := mergo.Merge(&merged, specific, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge %s@%s fields: %w", resourceType, version, err)
		}
	}

	fields := make(map[string]interface{}, len(names))
	for _, name := range names {
		fields[name] = merged[name]
	}

	metaKey := resourceType
	if rtName := fhir.GetString(resource, "resourceType"); rtName != "" {
		metaKey = rtName
	}

	return &Record{
		ResourceType: resourceType,
		Version:      version,
		Meta:         o.metadata.Lookup(metaKey),
		fields:       fields,
	}, nil
}
