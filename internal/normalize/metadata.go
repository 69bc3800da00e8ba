package normalize

// Metadata describes how a resource type is labelled by the renderer.
type Metadata struct {
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon,omitempty" yaml:"icon"`
}

// MetadataTable maps a resource type to its metadata.
type MetadataTable map[string]Metadata

// DefaultMetadata returns the built-in labels and icons.
func DefaultMetadata() MetadataTable {
	return MetadataTable{
		"AllergyIntolerance": {Label: "Allergy / Intolerance", Icon: "allergy-intolerance.svg"},
		"CarePlan":           {Label: "Care Plan", Icon: "care-plan.svg"},
		"Condition":          {Label: "Condition", Icon: "condition.svg"},
		"Goal":               {Label: "Goal", Icon: "goal.svg"},
		"Immunization":       {Label: "Immunization", Icon: "immunization.svg"},
		"Procedure":          {Label: "Procedure", Icon: "procedure.svg"},
	}
}

// Lookup returns the metadata for resourceType. Unknown types get their own
// name as label and no icon.
func (t MetadataTable) Lookup(resourceType string) Metadata {
	if m, ok := t[resourceType]; ok {
		if m.Label == "" {
			m.Label = resourceType
		}
		return m
	}
	return Metadata{Label: resourceType}
}

// Merge returns a new table with the entries of other layered over t.
func (t MetadataTable) Merge(other MetadataTable) MetadataTable {
	out := make(MetadataTable, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
