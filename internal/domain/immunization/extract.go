package immunization

import (
	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
	"github.com/ehr/fhirview/pkg/fhirmodels"
)

// ResourceType is the FHIR type handled by this package.
const ResourceType = "Immunization"

// Fields is the canonical Immunization schema.
var Fields = []string{
	"vaccineText", "status", "occurrence", "notGiven", "patient",
	"hasLotNumber", "lotNumber", "expirationDate",
	"hasSite", "site", "hasRoute", "route",
	"hasPerformer", "performer",
	"hasNote", "note",
}

var (
	vaccineText = normalize.FirstOf("vaccineCode.coding.0.display", "vaccineCode.text", "vaccineCode.coding.0.code")
	occurrence  = normalize.FirstOf("occurrenceDateTime", "occurrenceString")
)

// Register adds Immunization and its version extractors to r.
func Register(r *normalize.Registry) {
	r.RegisterType(normalize.Type{Name: ResourceType, Fields: Fields, Common: common})
	r.RegisterVersion(ResourceType, fhir.DSTU2, dstu2)
	r.RegisterVersion(ResourceType, fhir.STU3, stu3)
	r.RegisterVersion(ResourceType, fhir.R4, r4)
}

func common(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"vaccineText":    vaccineText.ResolveString(res),
		"status":         fhir.Get(res, "status"),
		"patient":        fhir.Get(res, "patient"),
		"hasLotNumber":   normalize.Truthy(res, "lotNumber"),
		"lotNumber":      fhir.Get(res, "lotNumber"),
		"expirationDate": fhir.Get(res, "expirationDate"),
		"hasSite":        normalize.Truthy(res, "site"),
		"site":           fhir.Get(res, "site"),
		"hasRoute":       normalize.Truthy(res, "route"),
		"route":          fhir.Get(res, "route"),
		"hasNote":        normalize.NonEmptyList(res, "note"),
		"note":           fhir.Get(res, "note"),
	}
}

func dstu2(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"occurrence":   fhir.Get(res, "date"),
		"notGiven":     normalize.Truthy(res, "wasNotGiven"),
		"hasPerformer": normalize.Truthy(res, "performer"),
		"performer":    fhir.Get(res, "performer"),
	}
}

func stu3(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"occurrence":   fhir.Get(res, "date"),
		"notGiven":     normalize.Truthy(res, "notGiven"),
		"hasPerformer": normalize.Truthy(res, "practitioner.0.actor"),
		"performer":    fhir.Get(res, "practitioner.0.actor"),
	}
}

// R4 renamed date to occurrence[x] and dropped notGiven for the not-done status.
func r4(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"occurrence":   occurrence.ResolveString(res),
		"notGiven":     fhir.GetString(res, "status") == fhirmodels.EventStatusNotDone,
		"hasPerformer": normalize.Truthy(res, "performer.0.actor"),
		"performer":    fhir.Get(res, "performer.0.actor"),
	}
}
