package safety

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Involvement is the tri-state answer to "was anyone injured". It drives the
// wizard's step count: near-miss reports skip the medical-care step entirely.
type Involvement string

const (
	InvolvementYes      Involvement = "yes"
	InvolvementNo       Involvement = "no"
	InvolvementNearMiss Involvement = "near_miss"
)

// ParseInvolvement validates a raw involvement answer.
func ParseInvolvement(s string) (Involvement, error) {
	switch Involvement(s) {
	case InvolvementYes, InvolvementNo, InvolvementNearMiss:
		return Involvement(s), nil
	}
	return "", fmt.Errorf("invalid involvement: %q", s)
}

// Wizard step indices.
const (
	StepBasics       = 1 // date/time, narrative, location
	StepInjury       = 2 // involvement tri-state, injured person, category, body part, witness
	StepMedical      = 3 // treatment level, physician/facility, quick flags (skipped for near miss)
	StepConfirmation = 4 // read-only summary + confirmation checkbox
)

// IntakeState is the full state of one intake wizard session. It is a pure
// value: NextStep, PrevStep, and Payload never mutate it, so callers decide
// when a transition is committed.
type IntakeState struct {
	Step int `json:"step"`

	// Step 1
	IncidentDate        time.Time `json:"incident_date"`
	IncidentTime        string    `json:"incident_time"`
	WhatHappened        string    `json:"what_happened"`
	LocationDescription string    `json:"location_description"`
	// SourceLocation is a fixed location supplied by the source container
	// (e.g. a work order's site address). When set it satisfies the step 1
	// location gate without a typed description.
	SourceLocation string `json:"source_location"`

	// Step 2
	Involvement             Involvement `json:"involvement"`
	InjuredEmployeeName     string      `json:"injured_employee_name"`
	InjuredEmployeeJobTitle string      `json:"injured_employee_job_title"`
	InjuryCategory          string      `json:"injury_category"`
	BodyPartAffected        string      `json:"body_part_affected"`
	WitnessName             string      `json:"witness_name"`
	WitnessContact          string      `json:"witness_contact"`

	// Step 3 (all optional)
	MedicalTreatment   string `json:"medical_treatment"`
	PhysicianName      string `json:"physician_name"`
	FacilityName       string `json:"facility_name"`
	ResultedInDaysAway bool   `json:"resulted_in_days_away"`
	ResultedInTransfer bool   `json:"resulted_in_transfer"`

	// Step 4
	Confirmed bool `json:"confirmed"`

	// Source linkage, fixed for the session.
	SourceType string     `json:"source_type"`
	SourceID   *uuid.UUID `json:"source_id"`
	ProjectID  *uuid.UUID `json:"project_id"`
}

// TotalSteps is 3 for near-miss reports (the medical step is skipped) and 4
// otherwise.
func (s IntakeState) TotalSteps() int {
	if s.Involvement == InvolvementNearMiss {
		return 3
	}
	return 4
}

// isNearMiss reports whether the session skips the medical step.
func (s IntakeState) isNearMiss() bool { return s.Involvement == InvolvementNearMiss }

// NextStep returns the step the wizard advances to from the current step, or
// an error naming the gate that blocks the transition. Gates trim whitespace
// so a blank-padded narrative does not pass.
func (s IntakeState) NextStep() (int, error) {
	switch s.Step {
	case StepBasics:
		if strings.TrimSpace(s.WhatHappened) == "" {
			return s.Step, fmt.Errorf("what_happened is required")
		}
		if strings.TrimSpace(s.LocationDescription) == "" && strings.TrimSpace(s.SourceLocation) == "" {
			return s.Step, fmt.Errorf("location_description is required")
		}
		return StepInjury, nil

	case StepInjury:
		if _, err := ParseInvolvement(string(s.Involvement)); err != nil {
			return s.Step, fmt.Errorf("injury involvement answer is required")
		}
		if s.Involvement == InvolvementYes && strings.TrimSpace(s.InjuredEmployeeName) == "" {
			return s.Step, fmt.Errorf("injured_employee_name is required when an injury is involved")
		}
		if s.isNearMiss() {
			return StepConfirmation, nil
		}
		return StepMedical, nil

	case StepMedical:
		// Medical fields are all optional.
		return StepConfirmation, nil

	case StepConfirmation:
		return s.Step, fmt.Errorf("already at the final step")
	}
	return s.Step, fmt.Errorf("invalid step: %d", s.Step)
}

// PrevStep returns the step the wizard moves back to. Backward navigation
// from the confirmation step skips the medical step for near-miss flows.
func (s IntakeState) PrevStep() int {
	if s.Step <= StepBasics {
		return StepBasics
	}
	if s.Step == StepConfirmation && s.isNearMiss() {
		return StepInjury
	}
	return s.Step - 1
}

// CanSubmit reports whether the confirmation gate allows submission.
func (s IntakeState) CanSubmit() bool {
	return s.Step == StepConfirmation && s.Confirmed
}

// CreateIncidentInput is the payload assembled by the wizard on submit and
// accepted by Service.LogIncident.
type CreateIncidentInput struct {
	SourceType string     `json:"source_type"`
	SourceID   *uuid.UUID `json:"source_id"`
	ProjectID  *uuid.UUID `json:"project_id"`

	IncidentDate            time.Time `json:"incident_date"`
	IncidentTime            string    `json:"incident_time"`
	LocationDescription     string    `json:"location_description"`
	WhatHappened            string    `json:"what_happened"`
	InjuryInvolved          bool      `json:"injury_involved"`
	InjuredEmployeeName     string    `json:"injured_employee_name"`
	InjuredEmployeeJobTitle string    `json:"injured_employee_job_title"`
	InjuryCategory          string    `json:"injury_category"`
	BodyPartAffected        string    `json:"body_part_affected"`
	WitnessName             string    `json:"witness_name"`
	WitnessContact          string    `json:"witness_contact"`
	MedicalTreatment        string    `json:"medical_treatment"`
	PhysicianName           string    `json:"physician_name"`
	FacilityName            string    `json:"facility_name"`
	ResultedInDaysAway      bool      `json:"resulted_in_days_away"`
	ResultedInTransfer      bool      `json:"resulted_in_transfer"`

	// NearMiss distinguishes "no injury" from "near miss" since both map
	// injury_involved to false.
	NearMiss bool `json:"near_miss"`
}

// Payload assembles the create request. The involvement tri-state maps to
// injury_involved (true only for yes); no-injury and near-miss reports get
// the "N/A" placeholder employee name.
func (s IntakeState) Payload() (CreateIncidentInput, error) {
	if !s.CanSubmit() {
		return CreateIncidentInput{}, fmt.Errorf("confirmation is required before submitting")
	}

	in := CreateIncidentInput{
		SourceType:              s.SourceType,
		SourceID:                s.SourceID,
		ProjectID:               s.ProjectID,
		IncidentDate:            s.IncidentDate,
		IncidentTime:            strings.TrimSpace(s.IncidentTime),
		LocationDescription:     strings.TrimSpace(s.LocationDescription),
		WhatHappened:            strings.TrimSpace(s.WhatHappened),
		InjuryInvolved:          s.Involvement == InvolvementYes,
		InjuredEmployeeName:     strings.TrimSpace(s.InjuredEmployeeName),
		InjuredEmployeeJobTitle: strings.TrimSpace(s.InjuredEmployeeJobTitle),
		InjuryCategory:          s.InjuryCategory,
		BodyPartAffected:        s.BodyPartAffected,
		WitnessName:             strings.TrimSpace(s.WitnessName),
		WitnessContact:          strings.TrimSpace(s.WitnessContact),
		NearMiss:                s.isNearMiss(),
	}

	if in.LocationDescription == "" {
		in.LocationDescription = strings.TrimSpace(s.SourceLocation)
	}
	if !in.InjuryInvolved {
		in.InjuredEmployeeName = "N/A"
	}
	if !s.isNearMiss() {
		in.MedicalTreatment = s.MedicalTreatment
		in.PhysicianName = strings.TrimSpace(s.PhysicianName)
		in.FacilityName = strings.TrimSpace(s.FacilityName)
		in.ResultedInDaysAway = s.ResultedInDaysAway
		in.ResultedInTransfer = s.ResultedInTransfer
	}
	return in, nil
}
