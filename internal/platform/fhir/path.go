package fhir

import (
	"reflect"
	"strconv"
)

// ---------------------------------------------------------------------------
// Path-based access into decoded FHIR resources
// ---------------------------------------------------------------------------
//
// A path is a list of segments separated by dots. A segment may also be
// written in brackets, either as an index ("coding[0]") or as a quoted key
// (`extension["url"]`). A bare numeric segment indexes a list and is an
// ordinary key on a map, so "coding.0.display" and "coding[0].display" are
// the same path.
//
// Every function here is total: a missing node, a scalar in the middle of a
// path, an out-of-range index or a malformed path all read as "absent".

// Lookup resolves path against resource. The boolean reports whether the final
// key or index exists; a key holding JSON null is present with a nil value.
func Lookup(resource interface{}, path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}
	cur := resource
	for i := 0; i < len(path); {
		seg, next, ok := nextSegment(path, i)
		if !ok {
			return nil, false
		}
		cur, ok = step(cur, seg)
		if !ok {
			return nil, false
		}
		i = next
	}
	return cur, true
}

// Get returns the value at path, or def (nil when omitted) if the path does
// not resolve. A present JSON null is returned as nil, not as def.
func Get(resource interface{}, path string, def ...interface{}) interface{} {
	if v, ok := Lookup(resource, path); ok {
		return v
	}
	if len(def) > 0 {
		return def[0]
	}
	return nil
}

// Has reports whether path resolves to an existing key or index.
func Has(resource interface{}, path string) bool {
	_, ok := Lookup(resource, path)
	return ok
}

// GetString returns the string at path, or "" if the value is absent or not a
// string.
func GetString(resource interface{}, path string) string {
	s, _ := Get(resource, path).(string)
	return s
}

// GetSlice returns the list at path as []interface{}. Typed slices such as
// []map[string]interface{} are converted; anything else yields nil.
func GetSlice(resource interface{}, path string) []interface{} {
	s, _ := AsSlice(Get(resource, path))
	return s
}

// GetMap returns the object at path as map[string]interface{}, or nil.
func GetMap(resource interface{}, path string) map[string]interface{} {
	m, _ := AsMap(Get(resource, path))
	return m
}

// AsSlice converts any slice or array value to []interface{}. A
// []interface{} is returned as is.
func AsSlice(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []interface{}:
		return s, true
	case []map[string]interface{}:
		out := make([]interface{}, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// AsMap converts any map with string keys to map[string]interface{}. A
// map[string]interface{} is returned as is.
func AsMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case nil:
		return nil, false
	case map[string]interface{}:
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]interface{}, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// IsEmpty reports whether v carries no renderable content: nil, "", or an
// empty list or object. Booleans and numbers are never empty.
func IsEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.IsNil() || rv.Len() == 0
	case reflect.Array, reflect.String:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

type pathSegment struct {
	key    string
	quoted bool // quoted keys never index a list
}

// nextSegment parses the segment starting at path[i] and returns it with the
// offset of the following segment.
func nextSegment(path string, i int) (pathSegment, int, bool) {
	var seg pathSegment
	if path[i] == '[' {
		end := i + 1
		for end < len(path) && path[end] != ']' {
			end++
		}
		if end >= len(path) {
			return seg, 0, false
		}
		inner := path[i+1 : end]
		if n := len(inner); n >= 2 && (inner[0] == '"' || inner[0] == '\'') && inner[n-1] == inner[0] {
			seg = pathSegment{key: inner[1 : n-1], quoted: true}
		} else if inner == "" {
			return seg, 0, false
		} else {
			seg = pathSegment{key: inner}
		}
		i = end + 1
	} else {
		start := i
		for i < len(path) && path[i] != '.' && path[i] != '[' {
			i++
		}
		if i == start {
			return seg, 0, false
		}
		seg = pathSegment{key: path[start:i]}
	}

	if i < len(path) && path[i] == '.' {
		i++
		if i == len(path) {
			return seg, 0, false
		}
	}
	return seg, i, true
}

// step descends one segment into cur.
func step(cur interface{}, seg pathSegment) (interface{}, bool) {
	switch node := cur.(type) {
	case nil:
		return nil, false
	case map[string]interface{}:
		v, ok := node[seg.key]
		return v, ok
	case []interface{}:
		idx, ok := segmentIndex(seg, len(node))
		if !ok {
			return nil, false
		}
		return node[idx], true
	case []map[string]interface{}:
		idx, ok := segmentIndex(seg, len(node))
		if !ok {
			return nil, false
		}
		return node[idx], true
	case map[string]string:
		v, ok := node[seg.key]
		return v, ok
	}
	return stepReflect(reflect.ValueOf(cur), seg)
}

func stepReflect(rv reflect.Value, seg pathSegment) (interface{}, bool) {
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		kt := rv.Type().Key()
		if kt.Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(seg.key).Convert(kt))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		idx, ok := segmentIndex(seg, rv.Len())
		if !ok {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	}
	return nil, false
}

// segmentIndex parses seg as a non-negative list index below n.
func segmentIndex(seg pathSegment, n int) (int, bool) {
	if seg.quoted || seg.key == "" {
		return 0, false
	}
	for i := 0; i < len(seg.key); i++ {
		if seg.key[i] < '0' || seg.key[i] > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(seg.key)
	if err != nil || idx >= n {
		return 0, false
	}
	return idx, true
}
