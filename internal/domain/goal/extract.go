package goal

import (
	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

// ResourceType is the FHIR type handled by this package.
const ResourceType = "Goal"

// Fields is the canonical Goal schema.
var Fields = []string{
	"description", "status", "achievementStatus", "priority",
	"startDate", "statusDate", "dueDate", "hasTarget",
	"hasCategory", "category",
	"hasAddresses", "addresses",
	"hasNote", "note",
}

var (
	plainDescription   = normalize.FirstOf("description")
	conceptDescription = normalize.FirstOf("description.text", "description.coding.0.display")
	achievementStatus  = normalize.FirstOf(
		"achievementStatus.coding.0.display",
		"achievementStatus.text",
		"achievementStatus.coding.0.code",
	)
	dstu2Priority = normalize.FirstOf("priority.coding.0.display")
	priority      = normalize.FirstOf("priority.coding.0.display", "priority.text")
)

// Register adds Goal and its version extractors to r.
func Register(r *normalize.Registry) {
	r.RegisterType(normalize.Type{Name: ResourceType, Fields: Fields, Common: common})
	r.RegisterVersion(ResourceType, fhir.DSTU2, dstu2)
	r.RegisterVersion(ResourceType, fhir.STU3, stu3)
	r.RegisterVersion(ResourceType, fhir.R4, r4)
}

func common(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"startDate":    fhir.Get(res, "startDate"),
		"statusDate":   fhir.Get(res, "statusDate"),
		"hasCategory":  normalize.NonEmptyList(res, "category"),
		"category":     fhir.Get(res, "category"),
		"hasAddresses": normalize.NonEmptyList(res, "addresses"),
		"addresses":    fhir.Get(res, "addresses"),
		"hasNote":      normalize.NonEmptyList(res, "note"),
		"note":         fhir.Get(res, "note"),
	}
}

// DSTU2 keeps the description as plain text and the due date on the goal.
func dstu2(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"description":       plainDescription.ResolveString(res),
		"status":            fhir.Get(res, "status"),
		"achievementStatus": nil,
		"priority":          dstu2Priority.ResolveString(res),
		"dueDate":           fhir.Get(res, "targetDate"),
		"hasTarget":         normalize.Truthy(res, "targetDate") || normalize.HasPath(res, "targetQuantity"),
	}
}

func stu3(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"description":       conceptDescription.ResolveString(res),
		"status":            fhir.Get(res, "status"),
		"achievementStatus": nil,
		"priority":          priority.ResolveString(res),
		"dueDate":           fhir.Get(res, "target.dueDate"),
		"hasTarget":         normalize.Truthy(res, "target"),
	}
}

// R4 splits status into lifecycleStatus and achievementStatus, and target
// becomes a list.
func r4(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"description":       conceptDescription.ResolveString(res),
		"status":            fhir.Get(res, "lifecycleStatus"),
		"achievementStatus": achievementStatus.ResolveString(res),
		"priority":          priority.ResolveString(res),
		"dueDate":           fhir.Get(res, "target.0.dueDate"),
		"hasTarget":         normalize.NonEmptyList(res, "target"),
	}
}
