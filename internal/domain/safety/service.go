package safety

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sitedock/sitedock/internal/platform/notify"
)

type Service struct {
	repo     Repository
	notifier notify.Notifier
	logger   zerolog.Logger
}

func NewService(repo Repository, notifier notify.Notifier, logger zerolog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// LogIncident validates and persists a new incident report. The record is
// created in pending_review with a server-issued case number; the case
// number is returned to the reporter immediately.
func (s *Service) LogIncident(ctx context.Context, in CreateIncidentInput, reporterID uuid.UUID) (*Incident, error) {
	if strings.TrimSpace(in.WhatHappened) == "" {
		return nil, fmt.Errorf("what_happened is required")
	}
	if strings.TrimSpace(in.LocationDescription) == "" {
		return nil, fmt.Errorf("location_description is required")
	}
	if in.SourceType == "" {
		in.SourceType = SourceStandalone
	}
	if !validSourceTypes[in.SourceType] {
		return nil, fmt.Errorf("invalid source_type: %s", in.SourceType)
	}
	if in.InjuryInvolved && strings.TrimSpace(in.InjuredEmployeeName) == "" {
		return nil, fmt.Errorf("injured_employee_name is required when an injury is involved")
	}
	if in.InjuryCategory != "" && !ValidInjuryCategory(in.InjuryCategory) {
		return nil, fmt.Errorf("invalid injury_category: %s", in.InjuryCategory)
	}
	if in.BodyPartAffected != "" && !ValidBodyPart(in.BodyPartAffected) {
		return nil, fmt.Errorf("invalid body_part_affected: %s", in.BodyPartAffected)
	}
	if in.MedicalTreatment != "" && !ValidMedicalTreatment(in.MedicalTreatment) {
		return nil, fmt.Errorf("invalid medical_treatment: %s", in.MedicalTreatment)
	}

	now := time.Now().UTC()
	date := in.IncidentDate
	if date.IsZero() {
		date = now
	}

	name := strings.TrimSpace(in.InjuredEmployeeName)
	if !in.InjuryInvolved || name == "" {
		name = "N/A"
	}

	inc := &Incident{
		SourceType:              in.SourceType,
		SourceID:                in.SourceID,
		ProjectID:               in.ProjectID,
		IncidentDate:            date,
		IncidentTime:            strPtrOrNil(in.IncidentTime),
		LocationDescription:     strings.TrimSpace(in.LocationDescription),
		WhatHappened:            strings.TrimSpace(in.WhatHappened),
		InjuredEmployeeName:     name,
		InjuredEmployeeJobTitle: strPtrOrNil(in.InjuredEmployeeJobTitle),
		InjuryInvolved:          in.InjuryInvolved,
		InjuryCategory:          strPtrOrNil(in.InjuryCategory),
		BodyPartAffected:        strPtrOrNil(in.BodyPartAffected),
		WitnessName:             strPtrOrNil(in.WitnessName),
		WitnessContact:          strPtrOrNil(in.WitnessContact),
		MedicalTreatment:        strPtrOrNil(in.MedicalTreatment),
		ResultedInDaysAway:      in.ResultedInDaysAway,
		ResultedInTransfer:      in.ResultedInTransfer,
		Status:                  StatusPendingReview,
		ReportedAt:              now,
		ReporterID:              reporterID,
	}

	// A near-miss report is never recordable; the classification still
	// awaits reviewer confirmation and can be overturned there.
	if in.NearMiss {
		inc.IncidentClassification = strPtr(ClassificationNearMiss)
		inc.IsOSHARecordable = boolPtr(false)
	}

	seq, err := s.repo.NextCaseNumber(ctx, date.Year())
	if err != nil {
		return nil, fmt.Errorf("issuing case number: %w", err)
	}
	inc.CaseNumber = fmt.Sprintf("INC-%d-%04d", date.Year(), seq)

	if err := inc.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, inc); err != nil {
		return nil, fmt.Errorf("creating incident: %w", err)
	}

	s.notifyAsync(notify.Event{
		Kind:      "incident_reported",
		ProjectID: uuidStr(inc.ProjectID),
		Title:     fmt.Sprintf("Incident %s reported", inc.CaseNumber),
		Body:      inc.WhatHappened,
	})

	return inc, nil
}

func (s *Service) GetIncident(ctx context.Context, id uuid.UUID) (*Incident, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListIncidents(ctx context.Context, filter ListFilter, limit, offset int) ([]*Incident, int, error) {
	if filter.Status != "" && !validStatuses[filter.Status] {
		return nil, 0, fmt.Errorf("invalid status filter: %s", filter.Status)
	}
	return s.repo.List(ctx, filter, limit, offset)
}

// StartReview moves a pending incident into the under_review queue.
func (s *Service) StartReview(ctx context.Context, id uuid.UUID) (*Incident, error) {
	inc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("incident not found: %w", err)
	}
	if inc.IsClosed() {
		return nil, fmt.Errorf("incident is closed")
	}
	if inc.Status != StatusPendingReview {
		return inc, nil
	}
	inc.Status = StatusUnderReview
	if err := s.repo.Update(ctx, inc); err != nil {
		return nil, fmt.Errorf("updating incident: %w", err)
	}
	return inc, nil
}

// Classify applies the reviewer's classification and sets status to
// classified. Closed incidents reject all further mutation.
func (s *Service) Classify(ctx context.Context, id uuid.UUID, form Classification) (*Incident, error) {
	return s.saveClassification(ctx, id, form, StatusClassified)
}

// Close applies the classification and moves the incident to its terminal
// closed state.
func (s *Service) Close(ctx context.Context, id uuid.UUID, form Classification) (*Incident, error) {
	return s.saveClassification(ctx, id, form, StatusClosed)
}

func (s *Service) saveClassification(ctx context.Context, id uuid.UUID, form Classification, newStatus string) (*Incident, error) {
	inc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("incident not found: %w", err)
	}
	if inc.IsClosed() {
		return nil, fmt.Errorf("incident is closed")
	}

	wasRecordable := inc.IsOSHARecordable != nil && *inc.IsOSHARecordable

	if err := form.Apply(inc); err != nil {
		return nil, err
	}
	inc.Status = newStatus

	if err := s.repo.Update(ctx, inc); err != nil {
		return nil, fmt.Errorf("updating incident: %w", err)
	}

	nowRecordable := inc.IsOSHARecordable != nil && *inc.IsOSHARecordable
	if nowRecordable && !wasRecordable {
		s.notifyAsync(notify.Event{
			Kind:      "incident_classified",
			ProjectID: uuidStr(inc.ProjectID),
			Title:     fmt.Sprintf("Incident %s classified OSHA recordable", inc.CaseNumber),
			Body:      inc.WhatHappened,
		})
	}

	return inc, nil
}

// notifyAsync delivers best-effort: a notification failure never fails the
// save that produced it.
func (s *Service) notifyAsync(ev notify.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.Notify(ctx, ev); err != nil {
			s.logger.Warn().Err(err).Str("kind", ev.Kind).Msg("notification failed")
		}
	}()
}

func uuidStr(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
