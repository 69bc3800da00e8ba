package allergyintolerance

import (
	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

// ResourceType is the FHIR type handled by this package.
const ResourceType = "AllergyIntolerance"

// Fields is the canonical AllergyIntolerance schema.
var Fields = []string{
	"substance", "criticality", "onset",
	"clinicalStatus", "verificationStatus", "dateRecorded",
	"hasAsserter", "asserter", "patient",
	"hasReactions", "reactions",
	"hasNote", "note",
}

var (
	onset         = normalize.FirstDefined("onsetDateTime", "onset")
	manifestation = normalize.FirstOf("coding.0.display", "text", "coding.0.code")
	dstu2Subst    = normalize.FirstOf("substance.coding.0.display", "substance.text")
	codeSubst     = normalize.FirstOf("code.coding.0.display", "code.text")
)

// Register adds AllergyIntolerance and its version extractors to r.
func Register(r *normalize.Registry) {
	r.RegisterType(normalize.Type{Name: ResourceType, Fields: Fields, Common: common})
	r.RegisterVersion(ResourceType, fhir.DSTU2, dstu2)
	r.RegisterVersion(ResourceType, fhir.STU3, stu3)
	r.RegisterVersion(ResourceType, fhir.R4, r4)
}

func common(res map[string]interface{}) normalize.Fields {
	reactions := reactions(res)
	return normalize.Fields{
		"criticality":  fhir.Get(res, "criticality"),
		"onset":        onset.Resolve(res),
		"hasReactions": len(reactions) > 0,
		"reactions":    reactions,
		"hasNote":      normalize.Truthy(res, "note"),
		"note":         fhir.Get(res, "note"),
		"patient":      fhir.Get(res, "patient"),
	}
}

// reactions reduces each reaction to its manifestation names and severity.
func reactions(res map[string]interface{}) []interface{} {
	raw := fhir.GetSlice(res, "reaction")
	out := make([]interface{}, 0, len(raw))
	for _, reaction := range raw {
		var names []interface{}
		for _, m := range fhir.GetSlice(reaction, "manifestation") {
			if name := manifestation.ResolveString(m); name != nil {
				names = append(names, name)
			}
		}
		out = append(out, map[string]interface{}{
			"manifestations": names,
			"severity":       fhir.Get(reaction, "severity"),
			"description":    fhir.Get(reaction, "description"),
		})
	}
	return out
}

// DSTU2 folds clinical and verification status into a single status.
func dstu2(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"substance":          dstu2Subst.ResolveString(res),
		"clinicalStatus":     fhir.Get(res, "status"),
		"verificationStatus": nil,
		"dateRecorded":       fhir.Get(res, "recordedDate"),
		"hasAsserter":        normalize.HasPath(res, "reporter"),
		"asserter":           fhir.Get(res, "reporter"),
	}
}

func stu3(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"substance":          codeSubst.ResolveString(res),
		"clinicalStatus":     fhir.Get(res, "clinicalStatus"),
		"verificationStatus": fhir.Get(res, "verificationStatus"),
		"dateRecorded":       fhir.Get(res, "assertedDate"),
		"hasAsserter":        normalize.HasPath(res, "asserter"),
		"asserter":           fhir.Get(res, "asserter"),
	}
}

func r4(res map[string]interface{}) normalize.Fields {
	return normalize.Fields{
		"substance":          codeSubst.ResolveString(res),
		"clinicalStatus":     fhir.Get(res, "clinicalStatus.coding.0.code"),
		"verificationStatus": fhir.Get(res, "verificationStatus.coding.0.code"),
		"dateRecorded":       fhir.Get(res, "recordedDate"),
		"hasAsserter":        normalize.HasPath(res, "asserter"),
		"asserter":           fhir.Get(res, "asserter"),
	}
}
