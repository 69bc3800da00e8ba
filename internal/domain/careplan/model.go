package careplan

import (
	"fmt"

	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

type Activity struct {
	Title         string        `json:"title"`
	HasCategories bool          `json:"hasCategories"`
	Categories    []fhir.Coding `json:"categories"`
	Status        string        `json:"status"`
}

// View is the typed form of a canonical CarePlan record.
type View struct {
	Title         string                 `json:"title"`
	Status        string                 `json:"status"`
	Intent        string                 `json:"intent"`
	Description   string                 `json:"description"`
	PeriodStart   string                 `json:"periodStart"`
	PeriodEnd     string                 `json:"periodEnd"`
	HasCategory   bool                   `json:"hasCategory"`
	Category      []fhir.CodeableConcept `json:"category"`
	HasAddresses  bool                   `json:"hasAddresses"`
	Addresses     []fhir.Reference       `json:"addresses"`
	HasGoals      bool                   `json:"hasGoals"`
	Goals         []fhir.Reference       `json:"goals"`
	HasActivities bool                   `json:"hasActivities"`
	Activities    []Activity             `json:"activities"`
}

// Decode reads a CarePlan record, activities included, into a View.
func Decode(rec *normalize.Record) (View, error) {
	var v View
	if rec.ResourceType != ResourceType {
		return v, fmt.Errorf("decode %s: record is %s", ResourceType, rec.ResourceType)
	}
	err := rec.Decode(&v)
	return v, err
}
