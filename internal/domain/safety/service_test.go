package safety

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sitedock/sitedock/internal/platform/notify"
)

// -- Mock Repository --

type mockRepo struct {
	incidents map[uuid.UUID]*Incident
	counters  map[int]int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		incidents: make(map[uuid.UUID]*Incident),
		counters:  make(map[int]int),
	}
}

func (m *mockRepo) Create(_ context.Context, inc *Incident) error {
	inc.ID = uuid.New()
	inc.CreatedAt = time.Now()
	inc.UpdatedAt = time.Now()
	m.incidents[inc.ID] = inc
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Incident, error) {
	inc, ok := m.incidents[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return inc, nil
}

func (m *mockRepo) Update(_ context.Context, inc *Incident) error {
	if _, ok := m.incidents[inc.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.incidents[inc.ID] = inc
	return nil
}

func (m *mockRepo) List(_ context.Context, filter ListFilter, limit, offset int) ([]*Incident, int, error) {
	var result []*Incident
	for _, inc := range m.incidents {
		if filter.Status != "" && inc.Status != filter.Status {
			continue
		}
		result = append(result, inc)
	}
	return result, len(result), nil
}

func (m *mockRepo) NextCaseNumber(_ context.Context, year int) (int, error) {
	m.counters[year]++
	return m.counters[year], nil
}

// chanNotifier records events on a channel so async delivery can be awaited.
type chanNotifier struct {
	events chan notify.Event
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{events: make(chan notify.Event, 8)}
}

func (n *chanNotifier) Notify(_ context.Context, ev notify.Event) error {
	n.events <- ev
	return nil
}

func (n *chanNotifier) await(t *testing.T) notify.Event {
	t.Helper()
	select {
	case ev := <-n.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return notify.Event{}
	}
}

func newTestService() (*Service, *mockRepo, *chanNotifier) {
	repo := newMockRepo()
	notifier := newChanNotifier()
	return NewService(repo, notifier, zerolog.Nop()), repo, notifier
}

func validInput() CreateIncidentInput {
	return CreateIncidentInput{
		SourceType:          SourceProject,
		WhatHappened:        "slipped on wet floor",
		LocationDescription: "Lobby",
		InjuryInvolved:      false,
	}
}

func TestLogIncident_IssuesCaseNumber(t *testing.T) {
	svc, repo, notifier := newTestService()

	in := validInput()
	in.IncidentDate = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	inc, err := svc.LogIncident(context.Background(), in, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inc.CaseNumber != "INC-2026-0001" {
		t.Errorf("expected INC-2026-0001, got %q", inc.CaseNumber)
	}
	if inc.Status != StatusPendingReview {
		t.Errorf("expected pending_review, got %q", inc.Status)
	}
	if inc.IsOSHARecordable != nil {
		t.Error("recordability must be undetermined at intake")
	}
	if len(repo.incidents) != 1 {
		t.Errorf("expected 1 stored incident, got %d", len(repo.incidents))
	}

	if ev := notifier.await(t); ev.Kind != "incident_reported" {
		t.Errorf("expected incident_reported event, got %q", ev.Kind)
	}

	// Counter advances per create within a year.
	second, err := svc.LogIncident(context.Background(), in, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.CaseNumber != "INC-2026-0002" {
		t.Errorf("expected INC-2026-0002, got %q", second.CaseNumber)
	}
}

func TestLogIncident_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		name   string
		mutate func(*CreateIncidentInput)
	}{
		{"empty narrative", func(in *CreateIncidentInput) { in.WhatHappened = "  " }},
		{"empty location", func(in *CreateIncidentInput) { in.LocationDescription = "" }},
		{"bad source type", func(in *CreateIncidentInput) { in.SourceType = "spaceship" }},
		{"injury without name", func(in *CreateIncidentInput) { in.InjuryInvolved = true; in.InjuredEmployeeName = "" }},
		{"bad injury category", func(in *CreateIncidentInput) { in.InjuryCategory = "bad" }},
		{"bad body part", func(in *CreateIncidentInput) { in.BodyPartAffected = "tail" }},
		{"bad treatment", func(in *CreateIncidentInput) { in.MedicalTreatment = "leeches" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			if _, err := svc.LogIncident(context.Background(), in, uuid.New()); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLogIncident_PlaceholderName(t *testing.T) {
	svc, _, _ := newTestService()

	in := validInput()
	inc, err := svc.LogIncident(context.Background(), in, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inc.InjuredEmployeeName != "N/A" {
		t.Errorf("expected N/A placeholder, got %q", inc.InjuredEmployeeName)
	}
}

func TestLogIncident_NearMiss(t *testing.T) {
	svc, repo, _ := newTestService()

	in := validInput()
	in.NearMiss = true
	in.WhatHappened = "scaffold plank fell, nobody underneath"

	inc, err := svc.LogIncident(context.Background(), in, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inc.IncidentClassification == nil || *inc.IncidentClassification != ClassificationNearMiss {
		t.Errorf("expected near_miss classification, got %v", inc.IncidentClassification)
	}
	if inc.IsOSHARecordable == nil || *inc.IsOSHARecordable {
		t.Error("near-miss report must be created as not recordable")
	}
	if inc.Status != StatusPendingReview {
		t.Errorf("expected pending_review, got %q", inc.Status)
	}
	if _, ok := repo.incidents[inc.ID]; !ok {
		t.Error("incident not persisted")
	}
}

func TestClassify_RecordableTriggersNotification(t *testing.T) {
	svc, _, notifier := newTestService()

	inc, err := svc.LogIncident(context.Background(), validInput(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	notifier.await(t) // drain the intake event

	updated, err := svc.Classify(context.Background(), inc.ID, Classification{Recordability: RecordableYes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusClassified {
		t.Errorf("expected classified, got %q", updated.Status)
	}
	if ev := notifier.await(t); ev.Kind != "incident_classified" {
		t.Errorf("expected incident_classified event, got %q", ev.Kind)
	}
}

func TestClassify_NonRecordableNoNotification(t *testing.T) {
	svc, _, notifier := newTestService()

	inc, _ := svc.LogIncident(context.Background(), validInput(), uuid.New())
	notifier.await(t)

	if _, err := svc.Classify(context.Background(), inc.ID, Classification{Recordability: RecordableNo}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case ev := <-notifier.events:
		t.Errorf("unexpected notification %q for non-recordable classification", ev.Kind)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestClose_IsTerminal(t *testing.T) {
	svc, _, notifier := newTestService()

	inc, _ := svc.LogIncident(context.Background(), validInput(), uuid.New())
	notifier.await(t)

	closed, err := svc.Close(context.Background(), inc.ID, Classification{Recordability: RecordableNo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed.Status != StatusClosed {
		t.Errorf("expected closed, got %q", closed.Status)
	}

	// Any further mutation is rejected.
	if _, err := svc.Classify(context.Background(), inc.ID, Classification{Recordability: RecordableYes}); err == nil {
		t.Error("expected mutation of a closed incident to fail")
	}
	if _, err := svc.StartReview(context.Background(), inc.ID); err == nil {
		t.Error("expected review of a closed incident to fail")
	}
}

func TestStartReview(t *testing.T) {
	svc, _, notifier := newTestService()

	inc, _ := svc.LogIncident(context.Background(), validInput(), uuid.New())
	notifier.await(t)

	reviewed, err := svc.StartReview(context.Background(), inc.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reviewed.Status != StatusUnderReview {
		t.Errorf("expected under_review, got %q", reviewed.Status)
	}

	// Idempotent once past pending.
	again, err := svc.StartReview(context.Background(), inc.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Status != StatusUnderReview {
		t.Errorf("expected under_review, got %q", again.Status)
	}
}

func TestClassify_InvestigatingLeavesUndetermined(t *testing.T) {
	svc, _, notifier := newTestService()

	inc, _ := svc.LogIncident(context.Background(), validInput(), uuid.New())
	notifier.await(t)

	updated, err := svc.Classify(context.Background(), inc.ID, Classification{Recordability: Investigating})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.IsOSHARecordable != nil {
		t.Error("investigating must leave recordability nil")
	}
	if updated.IncidentClassification != nil {
		t.Error("investigating must leave classification unchanged")
	}
	if updated.Status != StatusClassified {
		t.Errorf("expected classified, got %q", updated.Status)
	}
}

func TestListIncidents_FilterValidation(t *testing.T) {
	svc, _, _ := newTestService()
	if _, _, err := svc.ListIncidents(context.Background(), ListFilter{Status: "bogus"}, 20, 0); err == nil {
		t.Error("expected invalid status filter to be rejected")
	}
}
