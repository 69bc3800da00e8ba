package immunization

import (
	"fmt"

	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

// View is the typed form of a canonical Immunization record.
type View struct {
	VaccineText    string                `json:"vaccineText"`
	Status         string                `json:"status"`
	Occurrence     string                `json:"occurrence"`
	NotGiven       bool                  `json:"notGiven"`
	Patient        *fhir.Reference       `json:"patient"`
	HasLotNumber   bool                  `json:"hasLotNumber"`
	LotNumber      string                `json:"lotNumber"`
	ExpirationDate string                `json:"expirationDate"`
	HasSite        bool                  `json:"hasSite"`
	Site           *fhir.CodeableConcept `json:"site"`
	HasRoute       bool                  `json:"hasRoute"`
	Route          *fhir.CodeableConcept `json:"route"`
	HasPerformer   bool                  `json:"hasPerformer"`
	Performer      *fhir.Reference       `json:"performer"`
	HasNote        bool                  `json:"hasNote"`
	Note           []fhir.Annotation     `json:"note"`
}

// Decode reads an Immunization record into a View.
func Decode(rec *normalize.Record) (View, error) {
	var v View
	if rec.ResourceType != ResourceType {
		return v, fmt.Errorf("decode %s: record is %s", ResourceType, rec.ResourceType)
	}
	err := rec.Decode(&v)
	return v, err
}
