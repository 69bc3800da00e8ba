// Package resources assembles the registry of every supported record type.
package resources

import (
	"github.com/ehr/fhirview/internal/domain/allergyintolerance"
	"github.com/ehr/fhirview/internal/domain/careplan"
	"github.com/ehr/fhirview/internal/domain/condition"
	"github.com/ehr/fhirview/internal/domain/goal"
	"github.com/ehr/fhirview/internal/domain/immunization"
	"github.com/ehr/fhirview/internal/domain/procedure"
	"github.com/ehr/fhirview/internal/normalize"
)

var registrars = []func(*normalize.Registry){
	allergyintolerance.Register,
	careplan.Register,
	condition.Register,
	goal.Register,
	immunization.Register,
	procedure.Register,
}

// Register adds every supported record type to r.
func Register(r *normalize.Registry) {
	for _, register := range registrars {
		register(r)
	}
}

// NewRegistry returns a validated registry holding every supported record
// type.
func NewRegistry() (*normalize.Registry, error) {
	r := normalize.NewRegistry()
	Register(r)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
