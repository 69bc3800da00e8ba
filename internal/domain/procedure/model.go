package procedure

import (
	"fmt"

	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

type Performer struct {
	Actor *fhir.Reference       `json:"actor"`
	Role  *fhir.CodeableConcept `json:"role"`
}

// View is the typed form of a canonical Procedure record. Outcome is a list
// because some servers send it as one.
type View struct {
	Display              string                 `json:"display"`
	Status               string                 `json:"status"`
	HasPerformedDateTime bool                   `json:"hasPerformedDateTime"`
	PerformedDateTime    string                 `json:"performedDateTime"`
	PerformedPeriodStart string                 `json:"performedPeriodStart"`
	PerformedPeriodEnd   string                 `json:"performedPeriodEnd"`
	HasPerformedPeriod   bool                   `json:"hasPerformedPeriod"`
	HasCoding            bool                   `json:"hasCoding"`
	Coding               []fhir.Coding          `json:"coding"`
	Category             *fhir.Coding           `json:"category"`
	LocationReference    *fhir.Reference        `json:"locationReference"`
	HasPerformerData     bool                   `json:"hasPerformerData"`
	Performer            []Performer            `json:"performer"`
	PerformerNames       []string               `json:"performerNames"`
	Outcome              []fhir.CodeableConcept `json:"outcome"`
	HasOutcome           bool                   `json:"hasOutcome"`
	HasReasonCode        bool                   `json:"hasReasonCode"`
	ReasonCode           []fhir.CodeableConcept `json:"reasonCode"`
	HasNote              bool                   `json:"hasNote"`
	Note                 []fhir.Annotation      `json:"note"`
	NotPerformed         bool                   `json:"notPerformed"`
}

// Decode reads a Procedure record into a View. Records of any other type
// are an error.
func Decode(rec *normalize.Record) (View, error) {
	var v View
	if rec.ResourceType != ResourceType {
		return v, fmt.Errorf("decode %s: record is %s", ResourceType, rec.ResourceType)
	}
	err := rec.Decode(&v)
	return v, err
}
