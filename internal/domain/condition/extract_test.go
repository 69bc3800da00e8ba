package condition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehr/fhirview/internal/domain/domaintest"
	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
)

func TestCondition_R4Scenario(t *testing.T) {
	r := domaintest.Registry(t, Register)
	res := map[string]interface{}{
		"resourceType": "Condition",
		"code": map[string]interface{}{
			"coding": []interface{}{map[string]interface{}{"display": "Hypertension"}},
		},
		"severity": map[string]interface{}{"text": "Moderate"},
		"clinicalStatus": map[string]interface{}{
			"coding": []interface{}{map[string]interface{}{"code": "active"}},
		},
		"recordedDate": "2020-01-01",
	}

	rec := domaintest.Normalize(t, r, ResourceType, fhir.R4, res)
	assert.Equal(t, "Hypertension", rec.Value("codeText"))
	assert.Equal(t, "Moderate", rec.Value("severityText"))
	assert.Equal(t, "active", rec.Value("clinicalStatus"))
	assert.Equal(t, "2020-01-01", rec.Value("dateRecorded"))
	assert.Equal(t, false, rec.Value("hasAsserter"))
	assert.Equal(t, false, rec.Value("hasBodySite"))
	assert.Nil(t, rec.Value("onsetDateTime"))
}

func TestCondition_CodeTextFallback(t *testing.T) {
	r := domaintest.Registry(t, Register)
	for _, v := range fhir.SupportedVersions() {
		t.Run(v.String(), func(t *testing.T) {
			res := map[string]interface{}{"code": map[string]interface{}{"text": "Fever"}}
			rec := domaintest.Normalize(t, r, ResourceType, v, res)
			assert.Equal(t, "Fever", rec.Value("codeText"))
		})
	}
}

func TestCondition_Versions(t *testing.T) {
	r := domaintest.Registry(t, Register)

	tests := []struct {
		version fhir.Version
		fixture string
	}{
		{fhir.DSTU2, "dstu2.json"},
		{fhir.STU3, "stu3.json"},
		{fhir.R4, "r4.json"},
	}
	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			rec := domaintest.Normalize(t, r, ResourceType, tt.version, domaintest.Fixture(t, tt.fixture))
			v, err := Decode(rec)
			require.NoError(t, err)

			assert.Equal(t, "Burn of ear", v.CodeText)
			assert.Equal(t, "Severe", v.SeverityText)
			assert.Equal(t, "2012-05-24", v.OnsetDateTime)
			assert.Equal(t, "active", v.ClinicalStatus)
			assert.Equal(t, "confirmed", v.VerificationStatus)
			assert.Equal(t, "2013-03-11", v.DateRecorded)
			assert.True(t, v.HasAsserter)
			require.NotNil(t, v.Asserter)
			assert.Equal(t, "Dr Adam Careful", v.Asserter.Display)
			assert.True(t, v.HasBodySite)
			require.Len(t, v.BodySite, 1)
			assert.Equal(t, "Left Ear", v.BodySite[0].Text)
			require.NotNil(t, v.Subject)
			assert.Equal(t, "Patient/example", v.Subject.Reference)
		})
	}
}

func TestCondition_Note(t *testing.T) {
	r := domaintest.Registry(t, Register)
	rec := domaintest.Normalize(t, r, ResourceType, fhir.R4, domaintest.Fixture(t, "r4.json"))
	v, err := Decode(rec)
	require.NoError(t, err)
	assert.True(t, v.HasNote)
	require.Len(t, v.Note, 1)
	assert.Equal(t, "Patient reports pain when touching the ear", v.Note[0].Text)

	rec = domaintest.Normalize(t, r, ResourceType, fhir.STU3, domaintest.Fixture(t, "stu3.json"))
	assert.False(t, rec.Bool("hasNote"))
}

func TestCondition_AsserterPresentButNull(t *testing.T) {
	r := domaintest.Registry(t, Register)
	rec := domaintest.Normalize(t, r, ResourceType, fhir.STU3, map[string]interface{}{"asserter": nil})
	assert.True(t, rec.Bool("hasAsserter"))
	assert.Nil(t, rec.Value("asserter"))
}

func TestCondition_VersionParity(t *testing.T) {
	r := domaintest.Registry(t, Register)
	domaintest.AssertVersionParity(t, r, ResourceType, Fields, map[fhir.Version]map[string]interface{}{
		fhir.DSTU2: domaintest.Fixture(t, "dstu2.json"),
		fhir.STU3:  domaintest.Fixture(t, "stu3.json"),
		fhir.R4:    domaintest.Fixture(t, "r4.json"),
	})
}

func TestCondition_UnknownVersion(t *testing.T) {
	r := domaintest.Registry(t, Register)
	_, err := r.Normalize(ResourceType, fhir.Version("generation-99"), map[string]interface{}{})
	require.Error(t, err)
	var verr *normalize.UnsupportedVersionError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Condition", verr.ResourceType)
	assert.Equal(t, fhir.Version("generation-99"), verr.Version)
}

func TestDecode_WrongType(t *testing.T) {
	r := normalize.NewRegistry()
	r.RegisterType(normalize.Type{Name: "Other", Fields: []string{"x"}})
	r.RegisterVersion("Other", fhir.R4, func(map[string]interface{}) normalize.Fields { return nil })
	rec, err := r.Normalize("Other", fhir.R4, nil)
	require.NoError(t, err)

	_, err = Decode(rec)
	assert.Error(t, err)
}
