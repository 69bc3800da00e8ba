package procedure

import (
	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
	"github.com/ehr/fhirview/pkg/fhirmodels"
)

// ResourceType is the FHIR type handled by this package.
const ResourceType = "Procedure"

// Fields is the canonical Procedure schema.
var Fields = []string{
	"display", "status",
	"hasPerformedDateTime", "performedDateTime",
	"performedPeriodStart", "performedPeriodEnd", "hasPerformedPeriod",
	"hasCoding", "coding", "category", "locationReference",
	"hasPerformerData", "performer", "performerNames",
	"outcome", "hasOutcome",
	"hasReasonCode", "reasonCode",
	"hasNote", "note",
	"notPerformed",
}

var display = normalize.FirstOf("code.coding.0.display", "code.text")

// Register adds Procedure and its version extractors to r.
func Register(r *normalize.Registry) {
	r.RegisterType(normalize.Type{Name: ResourceType, Fields: Fields, Common: common})
	r.RegisterVersion(ResourceType, fhir.DSTU2, dstu2)
	r.RegisterVersion(ResourceType, fhir.STU3, stu3)
	r.RegisterVersion(ResourceType, fhir.R4, r4)
}

func common(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"display":              display.ResolveString(res),
		"status":               fhir.Get(res, "status", ""),
		"hasPerformedDateTime": normalize.HasPath(res, "performedDateTime"),
		"performedDateTime":    fhir.Get(res, "performedDateTime"),
		"performedPeriodStart": fhir.Get(res, "performedPeriod.start"),
		"performedPeriodEnd":   fhir.Get(res, "performedPeriod.end"),
		"hasPerformedPeriod": normalize.Truthy(res, "performedPeriod.start") ||
			normalize.Truthy(res, "performedPeriod.end"),
		"hasCoding":         normalize.HasPath(res, "code.coding"),
		"coding":            fhir.Get(res, "code.coding", []interface{}{}),
		"category":          fhir.Get(res, "category.coding.0"),
		"locationReference": fhir.Get(res, "location"),
		"hasPerformerData":  normalize.AnyElementHas(res, "performer", "actor.display"),
		"performer":         fhir.Get(res, "performer", []interface{}{}),
		"performerNames":    performerNames(res),
		"outcome":           fhir.Get(res, "outcome"),
		"hasOutcome":        normalize.NonEmptyList(res, "outcome"),
	}
}

// performerNames lists each performer's display name, nil where missing, so
// that positions line up with performer.
func performerNames(res map[string]interface{}) []interface{} {
	performers := fhir.GetSlice(res, "performer")
	names := make([]interface{}, 0, len(performers))
	for _, p := range performers {
		names = append(names, fhir.Get(p, "actor.display"))
	}
	return names
}

func dstu2(res map[string]interface{}) normalize.Fields {
	reasonCode := []interface{}{}
	if reason := fhir.Get(res, "reasonCodeableConcept"); reason != nil {
		reasonCode = []interface{}{reason}
	}
	return normalize.Fields{
		"hasReasonCode": normalize.HasPath(res, "reasonCodeableConcept"),
		"reasonCode":    reasonCode,
		"hasNote":       normalize.HasPath(res, "notes"),
		"note":          fhir.Get(res, "notes", []interface{}{}),
		"notPerformed":  normalize.Truthy(res, "notPerformed"),
	}
}

func stu3(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"hasReasonCode": normalize.HasPath(res, "reasonCode"),
		"reasonCode":    fhir.Get(res, "reasonCode", []interface{}{}),
		"hasNote":       normalize.HasPath(res, "note"),
		"note":          fhir.Get(res, "note", []interface{}{}),
		"notPerformed":  normalize.Truthy(res, "notDone"),
	}
}

// R4 dropped notDone in favour of the not-done status.
func r4(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"hasReasonCode": normalize.HasPath(res, "reasonCode"),
		"reasonCode":    fhir.Get(res, "reasonCode", []interface{}{}),
		"hasNote":       normalize.HasPath(res, "note"),
		"note":          fhir.Get(res, "note", []interface{}{}),
		"notPerformed":  fhir.GetString(res, "status") == fhirmodels.EventStatusNotDone,
	}
}
