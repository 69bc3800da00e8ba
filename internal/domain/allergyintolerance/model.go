package allergyintolerance

import (
	"fmt"

	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

type Reaction struct {
	Manifestations []string `json:"manifestations"`
	Severity       string   `json:"severity"`
	Description    string   `json:"description"`
}

// View is the typed form of a canonical AllergyIntolerance record. DSTU2
// sends a single note, which decodes as a one-element list.
type View struct {
	Substance          string            `json:"substance"`
	Criticality        string            `json:"criticality"`
	Onset              string            `json:"onset"`
	ClinicalStatus     string            `json:"clinicalStatus"`
	VerificationStatus string            `json:"verificationStatus"`
	DateRecorded       string            `json:"dateRecorded"`
	HasAsserter        bool              `json:"hasAsserter"`
	Asserter           *fhir.Reference   `json:"asserter"`
	Patient            *fhir.Reference   `json:"patient"`
	HasReactions       bool              `json:"hasReactions"`
	Reactions          []Reaction        `json:"reactions"`
	HasNote            bool              `json:"hasNote"`
	Note               []fhir.Annotation `json:"note"`
}

// Decode reads an AllergyIntolerance record into a View. Records of any other
// type are an error.
func Decode(rec *normalize.Record) (View, error) {
	var v View
	if rec.ResourceType != ResourceType {
		return v, fmt.Errorf("decode %s: record is %s", ResourceType, rec.ResourceType)
	}
	err := rec.Decode(&v)
	return v, err
}
