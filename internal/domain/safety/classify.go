package safety

import (
	"fmt"
	"strings"
	"time"
)

// Recordability is the reviewer's core determination, one of four mutually
// exclusive choices.
type Recordability string

const (
	RecordableYes      Recordability = "yes"
	RecordableNo       Recordability = "no"
	RecordableNearMiss Recordability = "near_miss"
	Investigating      Recordability = "investigating"
)

// ParseRecordability validates a raw recordability choice.
func ParseRecordability(s string) (Recordability, error) {
	switch Recordability(s) {
	case RecordableYes, RecordableNo, RecordableNearMiss, Investigating:
		return Recordability(s), nil
	}
	return "", fmt.Errorf("invalid recordability choice: %q", s)
}

// Classification is the reviewer's form state submitted to classify an
// incident. Outcome and medical fields only take effect when Recordability
// is yes; on any other choice they are cleared in the persisted record so a
// choice toggled away from yes cannot leave stale outcome data behind.
type Classification struct {
	Recordability Recordability `json:"recordability"`
	IsPrivacyCase bool          `json:"is_privacy_case"`

	// Outcome section, applied only when Recordability is yes.
	InjuryType                string `json:"injury_type"`
	ResultedInDeath           bool   `json:"resulted_in_death"`
	ResultedInDaysAway        bool   `json:"resulted_in_days_away"`
	ResultedInTransfer        bool   `json:"resulted_in_transfer"`
	ResultedInOtherRecordable bool   `json:"resulted_in_other_recordable"`
	DaysAwayFromWork          int    `json:"days_away_from_work"`
	DaysOnJobTransfer         int    `json:"days_on_job_transfer"`

	// Medical details section, applied only when Recordability is yes.
	PhysicianName         string `json:"physician_name"`
	FacilityName          string `json:"facility_name"`
	TreatedInER           bool   `json:"treated_in_er"`
	HospitalizedOvernight bool   `json:"hospitalized_overnight"`

	CorrectiveActions    string     `json:"corrective_actions"`
	CorrectiveActionsDue *time.Time `json:"corrective_actions_due"`
	ReviewNotes          string     `json:"review_notes"`
}

// Validate checks the form before it is applied.
func (c Classification) Validate() error {
	if _, err := ParseRecordability(string(c.Recordability)); err != nil {
		return err
	}
	if c.DaysAwayFromWork < 0 {
		return fmt.Errorf("days_away_from_work must be non-negative")
	}
	if c.DaysOnJobTransfer < 0 {
		return fmt.Errorf("days_on_job_transfer must be non-negative")
	}
	if c.Recordability == RecordableYes && c.InjuryType != "" && !ValidInjuryCategory(c.InjuryType) {
		return fmt.Errorf("invalid injury_type: %s", c.InjuryType)
	}
	return nil
}

// Apply writes the classification onto the incident.
//
// The derivation table for the recordability choice:
//
//	yes           -> is_osha_recordable = true,  classification = injury
//	no            -> is_osha_recordable = false, classification = first_aid_only
//	near_miss     -> is_osha_recordable = false, classification = near_miss
//	investigating -> both left unchanged (recordable stays nil if undetermined)
//
// It does not touch the lifecycle status; the service decides between
// classified and closed.
func (c Classification) Apply(inc *Incident) error {
	if err := c.Validate(); err != nil {
		return err
	}

	switch c.Recordability {
	case RecordableYes:
		inc.IsOSHARecordable = boolPtr(true)
		inc.IncidentClassification = strPtr(ClassificationInjury)
	case RecordableNo:
		inc.IsOSHARecordable = boolPtr(false)
		inc.IncidentClassification = strPtr(ClassificationFirstAidOnly)
	case RecordableNearMiss:
		inc.IsOSHARecordable = boolPtr(false)
		inc.IncidentClassification = strPtr(ClassificationNearMiss)
	case Investigating:
		// Determination deferred; prior values stay as they are.
	}

	inc.IsPrivacyCase = c.IsPrivacyCase

	if c.Recordability == RecordableYes {
		inc.InjuryType = strPtrOrNil(c.InjuryType)
		inc.ResultedInDeath = c.ResultedInDeath
		inc.ResultedInDaysAway = c.ResultedInDaysAway
		inc.ResultedInTransfer = c.ResultedInTransfer
		inc.ResultedInOtherRecordable = c.ResultedInOtherRecordable
		inc.DaysAwayFromWork = c.DaysAwayFromWork
		inc.DaysOnJobTransfer = c.DaysOnJobTransfer
		inc.PhysicianName = strPtrOrNil(c.PhysicianName)
		inc.FacilityName = strPtrOrNil(c.FacilityName)
		inc.TreatedInER = c.TreatedInER
		inc.HospitalizedOvernight = c.HospitalizedOvernight
	} else {
		inc.InjuryType = nil
		inc.ResultedInDeath = false
		inc.ResultedInDaysAway = false
		inc.ResultedInTransfer = false
		inc.ResultedInOtherRecordable = false
		inc.DaysAwayFromWork = 0
		inc.DaysOnJobTransfer = 0
		inc.PhysicianName = nil
		inc.FacilityName = nil
		inc.TreatedInER = false
		inc.HospitalizedOvernight = false
	}

	inc.CorrectiveActions = strPtrOrNil(c.CorrectiveActions)
	inc.CorrectiveActionsDue = c.CorrectiveActionsDue
	inc.ReviewNotes = strPtrOrNil(c.ReviewNotes)

	return inc.Validate()
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func strPtrOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
