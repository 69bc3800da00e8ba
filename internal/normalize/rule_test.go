package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRule_FirstOf(t *testing.T) {
	rule := FirstOf("code.coding.0.display", "code.text", "code.coding.0.code")

	tests := []struct {
		name     string
		resource map[string]interface{}
		want     interface{}
	}{
		{
			name: "first candidate wins",
			resource: map[string]interface{}{"code": map[string]interface{}{
				"coding": []interface{}{map[string]interface{}{"display": "Fever", "code": "386661006"}},
				"text":   "High temperature",
			}},
			want: "Fever",
		},
		{
			name: "empty string falls through",
			resource: map[string]interface{}{"code": map[string]interface{}{
				"coding": []interface{}{map[string]interface{}{"display": "", "code": "386661006"}},
				"text":   "High temperature",
			}},
			want: "High temperature",
		},
		{
			name: "last candidate",
			resource: map[string]interface{}{"code": map[string]interface{}{
				"coding": []interface{}{map[string]interface{}{"code": "386661006"}},
			}},
			want: "386661006",
		},
		{
			name:     "nothing present",
			resource: map[string]interface{}{"code": map[string]interface{}{}},
			want:     nil,
		},
		{
			name:     "nil resource",
			resource: nil,
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rule.Resolve(tt.resource))
			assert.Equal(t, tt.want, rule.ResolveString(tt.resource))
		})
	}
}

func TestRule_FirstDefined(t *testing.T) {
	rule := FirstDefined("a", "b")

	assert.Equal(t, "", rule.Resolve(map[string]interface{}{"a": "", "b": "x"}))
	assert.Equal(t, float64(0), rule.Resolve(map[string]interface{}{"a": float64(0), "b": "x"}))
	assert.Equal(t, "x", rule.Resolve(map[string]interface{}{"a": nil, "b": "x"}))
	assert.Nil(t, rule.Resolve(map[string]interface{}{}))
}

func TestRule_ResolveStringSkipsNonStrings(t *testing.T) {
	rule := FirstOf("a", "b")
	res := map[string]interface{}{
		"a": map[string]interface{}{"text": "not a string"},
		"b": "fallback",
	}
	assert.Equal(t, "fallback", rule.ResolveString(res))
	assert.Equal(t, res["a"], rule.Resolve(res))
}

func TestRule_Deterministic(t *testing.T) {
	rule := FirstOf("x.0", "y", "z")
	res := map[string]interface{}{
		"x": []interface{}{},
		"y": []interface{}{"one"},
		"z": "zed",
	}
	for i := 0; i < 50; i++ {
		assert.Equal(t, []interface{}{"one"}, rule.Resolve(res))
	}
}
