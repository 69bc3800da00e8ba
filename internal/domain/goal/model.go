package goal

import (
	"fmt"

	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

// View is the typed form of a canonical Goal record.
type View struct {
	Description       string                 `json:"description"`
	Status            string                 `json:"status"`
	AchievementStatus string                 `json:"achievementStatus"`
	Priority          string                 `json:"priority"`
	StartDate         string                 `json:"startDate"`
	StatusDate        string                 `json:"statusDate"`
	DueDate           string                 `json:"dueDate"`
	HasTarget         bool                   `json:"hasTarget"`
	HasCategory       bool                   `json:"hasCategory"`
	Category          []fhir.CodeableConcept `json:"category"`
	HasAddresses      bool                   `json:"hasAddresses"`
	Addresses         []fhir.Reference       `json:"addresses"`
	HasNote           bool                   `json:"hasNote"`
	Note              []fhir.Annotation      `json:"note"`
}

// Decode reads a Goal record into a View.
func Decode(rec *normalize.Record) (View, error) {
	var v View
	if rec.ResourceType != ResourceType {
		return v, fmt.Errorf("decode %s: record is %s", ResourceType, rec.ResourceType)
	}
	err := rec.Decode(&v)
	return v, err
}
