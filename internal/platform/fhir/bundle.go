package fhir

// BundleEntry is one resource carried by a Bundle.
type BundleEntry struct {
	// Index is the position in Bundle.entry, counting entries without a
	// resource.
	Index    int
	FullURL  string
	Resource map[string]interface{}
}

// IsBundle reports whether v is a Bundle resource.
func IsBundle(v interface{}) bool {
	return GetString(v, "resourceType") == "Bundle"
}

// BundleEntries returns the entries of bundle that carry a resource object.
// Anything that is not a Bundle has no entries.
func BundleEntries(bundle interface{}) []BundleEntry {
	if !IsBundle(bundle) {
		return nil
	}
	raw := GetSlice(bundle, "entry")
	out := make([]BundleEntry, 0, len(raw))
	for i, e := range raw {
		res, ok := AsMap(Get(e, "resource"))
		if !ok {
			continue
		}
		out = append(out, BundleEntry{
			Index:    i,
			FullURL:  entryFullURL(e, res),
			Resource: res,
		})
	}
	return out
}

// entryFullURL returns the entry's fullUrl, or "Type/id" when the entry has
// none.
func entryFullURL(entry interface{}, res map[string]interface{}) string {
	if u := GetString(entry, "fullUrl"); u != "" {
		return u
	}
	rt := GetString(res, "resourceType")
	id := GetString(res, "id")
	if rt != "" && id != "" {
		return FormatReference(rt, id)
	}
	return ""
}
