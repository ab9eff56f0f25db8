package financial

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

type CreateChangeOrderInput struct {
	ProjectID   uuid.UUID `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
}

func (s *Service) CreateChangeOrder(ctx context.Context, tenantID string, in CreateChangeOrderInput) (*ChangeOrder, error) {
	if in.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("project_id is required")
	}
	num, err := s.repo.NextChangeOrderNumber(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	co := &ChangeOrder{
		TenantID:    tenantID,
		ProjectID:   in.ProjectID,
		Number:      num,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		AmountCents: in.AmountCents,
		Status:      ChangeOrderPending,
	}
	if err := co.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateChangeOrder(ctx, co); err != nil {
		return nil, err
	}
	return co, nil
}

func (s *Service) GetChangeOrder(ctx context.Context, id uuid.UUID) (*ChangeOrder, error) {
	return s.repo.GetChangeOrder(ctx, id)
}

func (s *Service) ListChangeOrders(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*ChangeOrder, int, error) {
	return s.repo.ListChangeOrders(ctx, projectID, limit, offset)
}

// DecideChangeOrder approves or rejects a pending change order. Decisions
// are final.
func (s *Service) DecideChangeOrder(ctx context.Context, id uuid.UUID, decision string) (*ChangeOrder, error) {
	if decision != ChangeOrderApproved && decision != ChangeOrderRejected {
		return nil, fmt.Errorf("decision must be %s or %s", ChangeOrderApproved, ChangeOrderRejected)
	}
	co, err := s.repo.GetChangeOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if co.Status != ChangeOrderPending {
		return nil, fmt.Errorf("change order is already %s", co.Status)
	}
	now := time.Now().UTC()
	co.Status = decision
	co.DecidedAt = &now
	if err := s.repo.UpdateChangeOrder(ctx, co); err != nil {
		return nil, err
	}
	return co, nil
}

// ApprovedChangeTotal sums approved change order deltas for the project.
func (s *Service) ApprovedChangeTotal(ctx context.Context, projectID uuid.UUID) (int64, error) {
	cos, _, err := s.repo.ListChangeOrders(ctx, projectID, 1000, 0)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, co := range cos {
		if co.Status == ChangeOrderApproved {
			total += co.AmountCents
		}
	}
	return total, nil
}

// BilledToDate sums earned-less-retainage across approved and paid
// pay applications for a project.
func (s *Service) BilledToDate(ctx context.Context, projectID uuid.UUID) (int64, error) {
	apps, _, err := s.repo.ListPayApplications(ctx, projectID, 1000, 0)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, pa := range apps {
		if pa.Status == PayAppApproved || pa.Status == PayAppPaid {
			total += pa.Totals().EarnedLessRetainageCents
		}
	}
	return total, nil
}

type CreatePayApplicationInput struct {
	ProjectID        uuid.UUID  `json:"project_id"`
	PeriodTo         time.Time  `json:"period_to"`
	RetainagePercent float64    `json:"retainage_percent"`
	Lines            []LineItem `json:"lines"`
}

func (s *Service) CreatePayApplication(ctx context.Context, tenantID string, in CreatePayApplicationInput) (*PayApplication, error) {
	num, err := s.repo.NextPayApplicationNumber(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	pa := &PayApplication{
		TenantID:         tenantID,
		ProjectID:        in.ProjectID,
		Number:           num,
		PeriodTo:         in.PeriodTo,
		RetainagePercent: in.RetainagePercent,
		Status:           PayAppDraft,
		Lines:            in.Lines,
	}
	for i := range pa.Lines {
		pa.Lines[i].ItemNumber = i + 1
	}
	if err := pa.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreatePayApplication(ctx, pa); err != nil {
		return nil, err
	}
	return pa, nil
}

func (s *Service) GetPayApplication(ctx context.Context, id uuid.UUID) (*PayApplication, error) {
	return s.repo.GetPayApplication(ctx, id)
}

func (s *Service) ListPayApplications(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*PayApplication, int, error) {
	return s.repo.ListPayApplications(ctx, projectID, limit, offset)
}

// UpdatePayApplicationLines replaces the continuation sheet. Only drafts
// can be edited.
func (s *Service) UpdatePayApplicationLines(ctx context.Context, id uuid.UUID, lines []LineItem) (*PayApplication, error) {
	pa, err := s.repo.GetPayApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if pa.Status != PayAppDraft {
		return nil, fmt.Errorf("pay application is %s and cannot be edited", pa.Status)
	}
	pa.Lines = lines
	for i := range pa.Lines {
		pa.Lines[i].ItemNumber = i + 1
	}
	if err := pa.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePayApplication(ctx, pa); err != nil {
		return nil, err
	}
	return pa, nil
}

func (s *Service) TransitionPayApplication(ctx context.Context, id uuid.UUID, to string) (*PayApplication, error) {
	pa, err := s.repo.GetPayApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransitionPayApp(pa.Status, to) {
		return nil, fmt.Errorf("cannot move pay application from %s to %s", pa.Status, to)
	}
	pa.Status = to
	if err := s.repo.UpdatePayApplication(ctx, pa); err != nil {
		return nil, err
	}
	return pa, nil
}
