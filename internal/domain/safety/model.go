package safety

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Incident maps to the safety_incident table. One row per reported safety
// event, with two life-phases: field intake (reporter) and classification
// (reviewer). Classification fields are nullable until a reviewer saves.
type Incident struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CaseNumber string    `db:"case_number" json:"case_number"`

	SourceType string     `db:"source_type" json:"source_type"`
	SourceID   *uuid.UUID `db:"source_id" json:"source_id,omitempty"`
	ProjectID  *uuid.UUID `db:"project_id" json:"project_id,omitempty"`

	// Intake fields, set once by the reporter.
	IncidentDate            time.Time `db:"incident_date" json:"incident_date"`
	IncidentTime            *string   `db:"incident_time" json:"incident_time,omitempty"`
	LocationDescription     string    `db:"location_description" json:"location_description"`
	WhatHappened            string    `db:"what_happened" json:"what_happened"`
	InjuredEmployeeName     string    `db:"injured_employee_name" json:"injured_employee_name"`
	InjuredEmployeeJobTitle *string   `db:"injured_employee_job_title" json:"injured_employee_job_title,omitempty"`
	InjuryInvolved          bool      `db:"injury_involved" json:"injury_involved"`
	InjuryCategory          *string   `db:"injury_category" json:"injury_category,omitempty"`
	BodyPartAffected        *string   `db:"body_part_affected" json:"body_part_affected,omitempty"`
	WitnessName             *string   `db:"witness_name" json:"witness_name,omitempty"`
	WitnessContact          *string   `db:"witness_contact" json:"witness_contact,omitempty"`
	MedicalTreatment        *string   `db:"medical_treatment" json:"medical_treatment,omitempty"`

	// Classification fields, set by the reviewer. IsOSHARecordable stays nil
	// until a determination is made; nil means "not yet determined", not
	// "determined not recordable".
	IsPrivacyCase             bool       `db:"is_privacy_case" json:"is_privacy_case"`
	IsOSHARecordable          *bool      `db:"is_osha_recordable" json:"is_osha_recordable"`
	IncidentClassification    *string    `db:"incident_classification" json:"incident_classification,omitempty"`
	InjuryType                *string    `db:"injury_type" json:"injury_type,omitempty"`
	ResultedInDeath           bool       `db:"resulted_in_death" json:"resulted_in_death"`
	ResultedInDaysAway        bool       `db:"resulted_in_days_away" json:"resulted_in_days_away"`
	ResultedInTransfer        bool       `db:"resulted_in_transfer" json:"resulted_in_transfer"`
	ResultedInOtherRecordable bool       `db:"resulted_in_other_recordable" json:"resulted_in_other_recordable"`
	DaysAwayFromWork          int        `db:"days_away_from_work" json:"days_away_from_work"`
	DaysOnJobTransfer         int        `db:"days_on_job_transfer" json:"days_on_job_transfer"`
	PhysicianName             *string    `db:"physician_name" json:"physician_name,omitempty"`
	FacilityName              *string    `db:"facility_name" json:"facility_name,omitempty"`
	TreatedInER               bool       `db:"treated_in_er" json:"treated_in_er"`
	HospitalizedOvernight     bool       `db:"hospitalized_overnight" json:"hospitalized_overnight"`
	CorrectiveActions         *string    `db:"corrective_actions" json:"corrective_actions,omitempty"`
	CorrectiveActionsDue      *time.Time `db:"corrective_actions_due" json:"corrective_actions_due,omitempty"`
	ReviewNotes               *string    `db:"review_notes" json:"review_notes,omitempty"`

	Status     string    `db:"status" json:"status"`
	ReportedAt time.Time `db:"reported_at" json:"reported_at"`
	ReporterID uuid.UUID `db:"reporter_id" json:"reporter_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// IsClosed reports whether the incident has reached its terminal state.
func (i *Incident) IsClosed() bool { return i.Status == StatusClosed }

// Validate checks the record-level invariants that must hold in persisted
// state regardless of which phase wrote the record.
func (i *Incident) Validate() error {
	if !validStatuses[i.Status] {
		return fmt.Errorf("invalid status: %s", i.Status)
	}
	if !validSourceTypes[i.SourceType] {
		return fmt.Errorf("invalid source_type: %s", i.SourceType)
	}
	if i.IsOSHARecordable != nil && *i.IsOSHARecordable {
		if i.IncidentClassification == nil || *i.IncidentClassification != ClassificationInjury {
			return fmt.Errorf("recordable incidents must be classified as injury")
		}
	}
	if i.IncidentClassification != nil && *i.IncidentClassification == ClassificationNearMiss {
		if i.IsOSHARecordable == nil || *i.IsOSHARecordable {
			return fmt.Errorf("near-miss incidents cannot be OSHA recordable")
		}
	}
	if i.DaysAwayFromWork < 0 {
		return fmt.Errorf("days_away_from_work must be non-negative")
	}
	if i.DaysOnJobTransfer < 0 {
		return fmt.Errorf("days_on_job_transfer must be non-negative")
	}
	return nil
}
