package allergyintolerance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehr/fhirview/internal/domain/domaintest"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

func TestAllergyIntolerance_Versions(t *testing.T) {
	r := domaintest.Registry(t, Register)

	tests := []struct {
		version            fhir.Version
		clinicalStatus     string
		verificationStatus string
		criticality        string
	}{
		{fhir.DSTU2, "confirmed", "", "CRITH"},
		{fhir.STU3, "active", "confirmed", "high"},
		{fhir.R4, "active", "confirmed", "high"},
	}
	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			rec := domaintest.Normalize(t, r, ResourceType, tt.version, domaintest.Fixture(t, tt.version.String()+".json"))
			v, err := Decode(rec)
			require.NoError(t, err)

			assert.Equal(t, "Cashew nuts", v.Substance)
			assert.Equal(t, tt.clinicalStatus, v.ClinicalStatus)
			assert.Equal(t, tt.verificationStatus, v.VerificationStatus)
			assert.Equal(t, tt.criticality, v.Criticality)
			assert.Equal(t, "2004", v.Onset)
			assert.Equal(t, "2014-10-09T14:58:00+11:00", v.DateRecorded)
			assert.True(t, v.HasAsserter)
			require.NotNil(t, v.Asserter)
			assert.Equal(t, "Patient/example", v.Asserter.Reference)
			require.NotNil(t, v.Patient)
			assert.True(t, v.HasReactions)
			require.NotEmpty(t, v.Reactions)
			assert.Equal(t, []string{"Anaphylactic reaction"}, v.Reactions[0].Manifestations)
			assert.Equal(t, "severe", v.Reactions[0].Severity)
			assert.True(t, v.HasNote)
			require.Len(t, v.Note, 1)
		})
	}
}

func TestAllergyIntolerance_ManifestationTextFallback(t *testing.T) {
	r := domaintest.Registry(t, Register)
	rec := domaintest.Normalize(t, r, ResourceType, fhir.R4, domaintest.Fixture(t, "r4.json"))
	v, err := Decode(rec)
	require.NoError(t, err)
	require.Len(t, v.Reactions, 2)
	assert.Equal(t, []string{"Hives"}, v.Reactions[1].Manifestations)
}

func TestAllergyIntolerance_Empty(t *testing.T) {
	r := domaintest.Registry(t, Register)
	for _, version := range fhir.SupportedVersions() {
		rec := domaintest.Normalize(t, r, ResourceType, version, map[string]interface{}{})
		assert.False(t, rec.Bool("hasReactions"))
		assert.False(t, rec.Bool("hasNote"))
		assert.False(t, rec.Bool("hasAsserter"))
		assert.Nil(t, rec.Value("substance"))
		assert.Nil(t, rec.Value("onset"))
	}
}

func TestAllergyIntolerance_VersionParity(t *testing.T) {
	r := domaintest.Registry(t, Register)
	domaintest.AssertVersionParity(t, r, ResourceType, Fields, map[fhir.Version]map[string]interface{}{
		fhir.DSTU2: domaintest.Fixture(t, "dstu2.json"),
		fhir.STU3:  domaintest.Fixture(t, "stu3.json"),
		fhir.R4:    domaintest.Fixture(t, "r4.json"),
	})
}
