package fhir

import (
	"encoding/json"
	"testing"
)

func conditionFixture() map[string]interface{} {
	return map[string]interface{}{
		"resourceType": "Condition",
		"code": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{"code": "38341003", "display": "Hypertension"},
			},
			"text": "High blood pressure",
		},
		"asserter": nil,
		"bodySite": []map[string]interface{}{
			{"coding": []map[string]string{{"display": "Left arm"}}},
		},
		"stage": map[string]string{"summary": "II"},
	}
}

// ---------------------------------------------------------------------------
// Lookup / Get
// ---------------------------------------------------------------------------

func TestGet_DotAndBracketPathsAreEquivalent(t *testing.T) {
	r := conditionFixture()
	for _, path := range []string{
		"code.coding.0.display",
		"code.coding[0].display",
		`code["coding"][0]["display"]`,
		"code['coding'].0['display']",
	} {
		if got := Get(r, path); got != "Hypertension" {
			t.Errorf("Get(%q) = %v, want Hypertension", path, got)
		}
	}
}

func TestGet_TypedContainers(t *testing.T) {
	r := conditionFixture()
	if got := Get(r, "bodySite.0.coding.0.display"); got != "Left arm" {
		t.Errorf("Get(bodySite...) = %v, want Left arm", got)
	}
	if got := Get(r, "stage.summary"); got != "II" {
		t.Errorf("Get(stage.summary) = %v, want II", got)
	}
}

func TestGet_DefaultOnlyWhenAbsent(t *testing.T) {
	r := conditionFixture()
	if got := Get(r, "severity.text", "none"); got != "none" {
		t.Errorf("expected default for absent path, got %v", got)
	}
	if got := Get(r, "asserter", "none"); got != nil {
		t.Errorf("expected nil for present null, got %v", got)
	}
	if got := Get(r, "severity.text"); got != nil {
		t.Errorf("expected nil without default, got %v", got)
	}
}

func TestGet_Totality(t *testing.T) {
	r := conditionFixture()
	var nilMap map[string]interface{}
	var nilSlice []interface{}
	var nilPtr *map[string]interface{}
	cases := []struct {
		name     string
		resource interface{}
		path     string
	}{
		{"nil resource", nil, "code.text"},
		{"nil map", nilMap, "code"},
		{"nil slice", nilSlice, "0"},
		{"nil pointer", nilPtr, "code"},
		{"empty path", r, ""},
		{"leading dot", r, ".code"},
		{"trailing dot", r, "code."},
		{"double dot", r, "code..text"},
		{"unclosed bracket", r, "code.coding[0"},
		{"empty brackets", r, "code.coding[]"},
		{"negative index", r, "code.coding.-1"},
		{"index past end", r, "code.coding.5.display"},
		{"huge index", r, "code.coding.99999999999999999999999"},
		{"index on map", r, "code.0"},
		{"quoted index on list", r, `code.coding["0"]`},
		{"key on list", r, "code.coding.display"},
		{"through scalar", r, "resourceType.length"},
		{"deep absent", r, "a.b.c.d.e.f.g"},
		{"scalar resource", "Condition", "code"},
		{"number resource", 42, "0"},
		{"struct resource", struct{ Code string }{"x"}, "Code"},
		{"int keyed map", map[int]string{0: "x"}, "0"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := Get(tt.resource, tt.path, "default"); got != "default" {
				t.Errorf("Get(%q) = %v, want default", tt.path, got)
			}
			if Has(tt.resource, tt.path) {
				t.Errorf("Has(%q) = true, want false", tt.path)
			}
		})
	}
}

func TestGet_PointerToMap(t *testing.T) {
	m := map[string]interface{}{"status": "active"}
	if got := Get(&m, "status"); got != "active" {
		t.Errorf("Get(&m, status) = %v, want active", got)
	}
}

func TestGet_DecodedJSON(t *testing.T) {
	var r map[string]interface{}
	raw := `{"performer":[{"actor":{"display":"Dr. Adam"}}],"outcome":{"text":"ok"},"count":0}`
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := GetString(r, "performer[0].actor.display"); got != "Dr. Adam" {
		t.Errorf("GetString = %q, want Dr. Adam", got)
	}
	if got := Get(r, "count"); got != float64(0) {
		t.Errorf("Get(count) = %v, want 0", got)
	}
}

// ---------------------------------------------------------------------------
// Has
// ---------------------------------------------------------------------------

func TestHas(t *testing.T) {
	r := conditionFixture()
	tests := []struct {
		path string
		want bool
	}{
		{"code", true},
		{"code.coding.0", true},
		{"asserter", true}, // present but null
		{"asserter.display", false},
		{"severity", false},
		{"bodySite.0.coding.0.display", true},
		{"bodySite.1", false},
	}
	for _, tt := range tests {
		if got := Has(r, tt.path); got != tt.want {
			t.Errorf("Has(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Typed helpers
// ---------------------------------------------------------------------------

func TestGetString_NonString(t *testing.T) {
	r := conditionFixture()
	if got := GetString(r, "code"); got != "" {
		t.Errorf("GetString(code) = %q, want empty", got)
	}
}

func TestGetSlice(t *testing.T) {
	r := conditionFixture()
	if got := GetSlice(r, "code.coding"); len(got) != 1 {
		t.Errorf("GetSlice(code.coding) len = %d, want 1", len(got))
	}
	got := GetSlice(r, "bodySite")
	if len(got) != 1 {
		t.Fatalf("GetSlice(bodySite) len = %d, want 1", len(got))
	}
	if _, ok := got[0].(map[string]interface{}); !ok {
		t.Errorf("expected element to be map[string]interface{}, got %T", got[0])
	}
	if got := GetSlice(r, "code"); got != nil {
		t.Errorf("GetSlice(code) = %v, want nil", got)
	}
}

func TestGetMap(t *testing.T) {
	r := conditionFixture()
	if got := GetMap(r, "stage"); got["summary"] != "II" {
		t.Errorf("GetMap(stage) = %v", got)
	}
	if got := GetMap(r, "code.text"); got != nil {
		t.Errorf("GetMap(code.text) = %v, want nil", got)
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		v    interface{}
		want bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"string", "x", false},
		{"empty list", []interface{}{}, true},
		{"list", []interface{}{1}, false},
		{"empty typed list", []map[string]interface{}{}, true},
		{"empty map", map[string]interface{}{}, true},
		{"empty typed map", map[string]string{}, true},
		{"zero", float64(0), false},
		{"false", false, false},
		{"nil pointer", (*Reference)(nil), true},
	}
	for _, tt := range tests {
		if got := IsEmpty(tt.v); got != tt.want {
			t.Errorf("IsEmpty(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
