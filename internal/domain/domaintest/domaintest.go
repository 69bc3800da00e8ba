// Package domaintest holds helpers shared by the record type tests.
package domaintest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mohae/deepcopy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

// Fixture reads testdata/<name> as a raw resource.
func Fixture(t testing.TB, name string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	var res map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &res))
	return res
}

// Registry returns a registry holding only the types added by register.
func Registry(t testing.TB, register func(*normalize.Registry)) *normalize.Registry {
	t.Helper()
	r := normalize.NewRegistry()
	register(r)
	require.NoError(t, r.Validate())
	return r
}

// Normalize normalizes res and checks that the input was left untouched.
func Normalize(t testing.TB, r *normalize.Registry, resourceType string, v fhir.Version, res map[string]interface{}) *normalize.Record {
	t.Helper()
	snapshot := deepcopy.Copy(res)
	rec, err := r.Normalize(resourceType, v, res)
	require.NoError(t, err)
	assert.Equal(t, snapshot, res, "resource was modified by Normalize")
	return rec
}

// AssertVersionParity checks that every supported version yields the same
// key set, which must equal schema.
func AssertVersionParity(t testing.TB, r *normalize.Registry, resourceType string, schema []string, fixtures map[fhir.Version]map[string]interface{}) {
	t.Helper()
	want := append([]string(nil), schema...)
	for _, v := range fhir.SupportedVersions() {
		res, ok := fixtures[v]
		if !ok {
			res = map[string]interface{}{}
		}
		rec := Normalize(t, r, resourceType, v, res)
		assert.ElementsMatch(t, want, rec.Keys(), "keys for %s@%s", resourceType, v)

		empty := Normalize(t, r, resourceType, v, map[string]interface{}{})
		assert.ElementsMatch(t, want, empty.Keys(), "keys for empty %s@%s", resourceType, v)
	}
}
