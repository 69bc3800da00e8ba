package condition

import (
	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

// ResourceType is the FHIR type handled by this package.
const ResourceType = "Condition"

// Fields is the canonical Condition schema.
var Fields = []string{
	"codeText", "severityText", "onsetDateTime",
	"hasAsserter", "asserter",
	"hasBodySite", "bodySite",
	"hasNote", "note",
	"clinicalStatus", "verificationStatus", "dateRecorded", "subject",
}

var (
	codeText     = normalize.FirstOf("code.coding.0.display", "code.text", "code.coding.0.code")
	severityText = normalize.FirstOf("severity.coding.0.display", "severity.text")
)

// Register adds Condition and its version extractors to r.
func Register(r *normalize.Registry) {
	r.RegisterType(normalize.Type{Name: ResourceType, Fields: Fields, Common: common})
	r.RegisterVersion(ResourceType, fhir.DSTU2, dstu2)
	r.RegisterVersion(ResourceType, fhir.STU3, stu3)
	r.RegisterVersion(ResourceType, fhir.R4, r4)
}

func common(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"codeText":      codeText.ResolveString(res),
		"severityText":  severityText.ResolveString(res),
		"onsetDateTime": fhir.Get(res, "onsetDateTime"),
		"hasAsserter":   normalize.HasPath(res, "asserter"),
		"asserter":      fhir.Get(res, "asserter"),
		"hasBodySite":   normalize.Truthy(res, "bodySite.0.coding.0.display"),
		"bodySite":      fhir.Get(res, "bodySite"),
		"hasNote":       normalize.NonEmptyList(res, "note"),
		"note":          fhir.Get(res, "note"),
	}
}

func dstu2(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"clinicalStatus":     fhir.Get(res, "clinicalStatus"),
		"verificationStatus": fhir.Get(res, "verificationStatus"),
		"dateRecorded":       fhir.Get(res, "dateRecorded"),
		"subject":            fhir.Get(res, "patient"),
	}
}

func stu3(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"clinicalStatus":     fhir.Get(res, "clinicalStatus"),
		"verificationStatus": fhir.Get(res, "verificationStatus"),
		"dateRecorded":       fhir.Get(res, "assertedDate"),
		"subject":            fhir.Get(res, "subject"),
	}
}

// R4 turned both statuses into CodeableConcepts.
func r4(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"clinicalStatus":     fhir.Get(res, "clinicalStatus.coding.0.code"),
		"verificationStatus": fhir.Get(res, "verificationStatus.coding.0.code"),
		"dateRecorded":       fhir.Get(res, "recordedDate"),
		"subject":            fhir.Get(res, "subject"),
	}
}
