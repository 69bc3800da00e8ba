package careplan

import (
	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

// ResourceType is the FHIR type handled by this package.
const ResourceType = "CarePlan"

// Fields is the canonical CarePlan schema.
var Fields = []string{
	"title", "status", "intent", "description",
	"periodStart", "periodEnd",
	"hasCategory", "category",
	"hasAddresses", "addresses",
	"hasGoals", "goals",
	"hasActivities", "activities",
}

// Activity keys, one map per CarePlan.activity entry.
const (
	ActivityTitle         = "title"
	ActivityHasCategories = "hasCategories"
	ActivityCategories    = "categories"
	ActivityStatus        = "status"
)

var activityTitle = normalize.FirstOf("detail.code.text", "detail.code.coding.0.display", "reference.display")

// Register adds CarePlan and its version extractors to r.
func Register(r *normalize.Registry) {
	r.RegisterType(normalize.Type{Name: ResourceType, Fields: Fields, Common: common})
	r.RegisterVersion(ResourceType, fhir.DSTU2, dstu2)
	r.RegisterVersion(ResourceType, fhir.STU3, stu3)
	r.RegisterVersion(ResourceType, fhir.R4, r4)
}

func common(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"status":       fhir.Get(res, "status"),
		"description":  fhir.Get(res, "description"),
		"periodStart":  fhir.Get(res, "period.start"),
		"periodEnd":    fhir.Get(res, "period.end"),
		"hasCategory":  normalize.NonEmptyList(res, "category"),
		"category":     fhir.Get(res, "category"),
		"hasAddresses": normalize.NonEmptyList(res, "addresses"),
		"addresses":    fhir.Get(res, "addresses"),
		"hasGoals":     normalize.NonEmptyList(res, "goal"),
		"goals":        fhir.Get(res, "goal"),
	}
}

// DSTU2 has neither title nor intent.
func dstu2(res map[string]interface{}) normalize.Fields {
	activities := activities(res, detailCategories)
	return normalize.Fields{
		"title":         nil,
		"intent":        nil,
		"activities":    activities,
		"hasActivities": len(activities) > 0,
	}
}

func stu3(res map[string]interface{}) normalize.Fields {
	activities := activities(res, detailCategories)
	return normalize.Fields{
		"title":         fhir.Get(res, "title"),
		"intent":        fhir.Get(res, "intent"),
		"activities":    activities,
		"hasActivities": len(activities) > 0,
	}
}

func r4(res map[string]interface{}) normalize.Fields {
	activities := activities(res, detailKind)
	return normalize.Fields{
		"title":         fhir.Get(res, "title"),
		"intent":        fhir.Get(res, "intent"),
		"activities":    activities,
		"hasActivities": len(activities) > 0,
	}
}

func activities(res map[string]interface{}, categories func(interface{}) []interface{}) []interface{} {
	raw := fhir.GetSlice(res, "activity")
	out := make([]interface{}, 0, len(raw))
	for _, a := range raw {
		cats := categories(a)
		out = append(out, map[string]interface{}{
			ActivityTitle:         activityTitle.ResolveString(a),
			ActivityHasCategories: len(cats) > 0,
			ActivityCategories:    cats,
			ActivityStatus:        fhir.Get(a, "detail.status"),
		})
	}
	return out
}

func detailCategories(activity interface{}) []interface{} {
	return fhir.GetSlice(activity, "detail.category.coding")
}

// R4 replaced detail.category with detail.kind, a bare resource type code.
func detailKind(activity interface{}) []interface{} {
	kind := fhir.Get(activity, "detail.kind")
	if fhir.IsEmpty(kind) {
		return nil
	}
	return []interface{}{map[string]interface{}{"code": kind}}
}
