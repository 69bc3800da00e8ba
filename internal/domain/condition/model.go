package condition

import (
	"fmt"

	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

// View is the typed form of a canonical Condition record.
type View struct {
	CodeText           string                 `json:"codeText"`
	SeverityText       string                 `json:"severityText"`
	OnsetDateTime      string                 `json:"onsetDateTime"`
	HasAsserter        bool                   `json:"hasAsserter"`
	Asserter           *fhir.Reference        `json:"asserter"`
	HasBodySite        bool                   `json:"hasBodySite"`
	BodySite           []fhir.CodeableConcept `json:"bodySite"`
	HasNote            bool                   `json:"hasNote"`
	Note               []fhir.Annotation      `json:"note"`
	ClinicalStatus     string                 `json:"clinicalStatus"`
	VerificationStatus string                 `json:"verificationStatus"`
	DateRecorded       string                 `json:"dateRecorded"`
	Subject            *fhir.Reference        `json:"subject"`
}

// Decode reads a Condition record into a View. Records of any other type
// are an error.
func Decode(rec *normalize.Record) (View, error) {
	var v View
	if rec.ResourceType != ResourceType {
		return v, fmt.Errorf("decode %s: record is %s", ResourceType, rec.ResourceType)
	}
	err := rec.Decode(&v)
	return v, err
}
