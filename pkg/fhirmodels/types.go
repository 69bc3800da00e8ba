package fhirmodels

// Common FHIR value set constants used across the application.

// EventStatus values shared by Procedure and Immunization.
const (
	EventStatusPreparation    = "preparation"
	EventStatusInProgress     = "in-progress"
	EventStatusNotDone        = "not-done"
	EventStatusOnHold         = "on-hold"
	EventStatusStopped        = "stopped"
	EventStatusCompleted      = "completed"
	EventStatusEnteredInError = "entered-in-error"
	EventStatusUnknown        = "unknown"
)

// ConditionClinicalStatus codes.
const (
	ConditionActive     = "active"
	ConditionRecurrence = "recurrence"
	ConditionRelapse    = "relapse"
	ConditionInactive   = "inactive"
	ConditionRemission  = "remission"
	ConditionResolved   = "resolved"
)

// RequestStatus codes used by CarePlan and its activities.
const (
	RequestStatusDraft          = "draft"
	RequestStatusActive         = "active"
	RequestStatusOnHold         = "on-hold"
	RequestStatusRevoked        = "revoked"
	RequestStatusCompleted      = "completed"
	RequestStatusEnteredInError = "entered-in-error"
	RequestStatusUnknown        = "unknown"
)

// AllergyIntoleranceCriticality codes.
const (
	CriticalityLow            = "low"
	CriticalityHigh           = "high"
	CriticalityUnableToAssess = "unable-to-assess"
)

// BadgeTone groups statuses for display: a status either reads as current,
// finished, or a problem.
type BadgeTone string

const (
	ToneActive   BadgeTone = "active"
	ToneInactive BadgeTone = "inactive"
	ToneAlert    BadgeTone = "alert"
	ToneNeutral  BadgeTone = "neutral"
)

var badgeTones = map[string]BadgeTone{
	ConditionActive:           ToneActive,
	ConditionRecurrence:       ToneActive,
	ConditionRelapse:          ToneActive,
	EventStatusInProgress:     ToneActive,
	EventStatusPreparation:    ToneActive,
	ConditionInactive:         ToneInactive,
	ConditionRemission:        ToneInactive,
	ConditionResolved:         ToneInactive,
	EventStatusCompleted:      ToneInactive,
	EventStatusNotDone:        ToneAlert,
	EventStatusStopped:        ToneAlert,
	EventStatusEnteredInError: ToneAlert,
	RequestStatusRevoked:      ToneAlert,
	CriticalityHigh:           ToneAlert,
}

// ToneFor returns the badge tone of a status code.
func ToneFor(status string) BadgeTone {
	if t, ok := badgeTones[status]; ok {
		return t
	}
	return ToneNeutral
}
