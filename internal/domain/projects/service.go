package projects

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateProject(ctx context.Context, p *Project) error {
	if p.Status == "" {
		p.Status = ProjectActive
	}
	if err := p.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProject(ctx context.Context, p *Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) ListProjects(ctx context.Context, status string, limit, offset int) ([]*Project, int, error) {
	if status != "" && !validProjectStatuses[status] {
		return nil, 0, fmt.Errorf("invalid status filter: %s", status)
	}
	return s.repo.List(ctx, status, limit, offset)
}

func (s *Service) CreateWorkOrder(ctx context.Context, wo *WorkOrder) error {
	if wo.ProjectID == uuid.Nil {
		return fmt.Errorf("project_id is required")
	}
	if wo.Title == "" {
		return fmt.Errorf("title is required")
	}
	if wo.Status == "" {
		wo.Status = WorkOrderOpen
	}
	if wo.Status != WorkOrderOpen {
		return fmt.Errorf("work orders are created open")
	}
	if _, err := s.repo.GetByID(ctx, wo.ProjectID); err != nil {
		return fmt.Errorf("project not found: %w", err)
	}
	return s.repo.CreateWorkOrder(ctx, wo)
}

func (s *Service) GetWorkOrder(ctx context.Context, id uuid.UUID) (*WorkOrder, error) {
	return s.repo.GetWorkOrder(ctx, id)
}

// TransitionWorkOrder moves a work order along its lifecycle, rejecting
// moves the transition table does not allow.
func (s *Service) TransitionWorkOrder(ctx context.Context, id uuid.UUID, newStatus string) (*WorkOrder, error) {
	wo, err := s.repo.GetWorkOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("work order not found: %w", err)
	}
	if !wo.CanTransition(newStatus) {
		return nil, fmt.Errorf("cannot transition work order from %s to %s", wo.Status, newStatus)
	}
	wo.Status = newStatus
	if err := s.repo.UpdateWorkOrder(ctx, wo); err != nil {
		return nil, err
	}
	return wo, nil
}

func (s *Service) ListWorkOrders(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*WorkOrder, int, error) {
	return s.repo.ListWorkOrders(ctx, projectID, limit, offset)
}

func (s *Service) RecordInspection(ctx context.Context, gi *GroundsInspection) error {
	if gi.ProjectID == uuid.Nil {
		return fmt.Errorf("project_id is required")
	}
	if gi.InspectedAt.IsZero() {
		gi.InspectedAt = time.Now().UTC()
	}
	if _, err := s.repo.GetByID(ctx, gi.ProjectID); err != nil {
		return fmt.Errorf("project not found: %w", err)
	}
	return s.repo.CreateInspection(ctx, gi)
}

func (s *Service) GetInspection(ctx context.Context, id uuid.UUID) (*GroundsInspection, error) {
	return s.repo.GetInspection(ctx, id)
}

func (s *Service) ListInspections(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*GroundsInspection, int, error) {
	return s.repo.ListInspections(ctx, projectID, limit, offset)
}

// ResolveSourceLocation returns the fixed location an intake session should
// pre-fill when reporting from a work order or inspection.
func (s *Service) ResolveSourceLocation(ctx context.Context, sourceType string, sourceID uuid.UUID) (string, error) {
	switch sourceType {
	case "work_order":
		wo, err := s.repo.GetWorkOrder(ctx, sourceID)
		if err != nil {
			return "", err
		}
		if wo.Location != nil {
			return *wo.Location, nil
		}
	case "grounds_inspection":
		gi, err := s.repo.GetInspection(ctx, sourceID)
		if err != nil {
			return "", err
		}
		if gi.Location != nil {
			return *gi.Location, nil
		}
	case "project":
		p, err := s.repo.GetByID(ctx, sourceID)
		if err != nil {
			return "", err
		}
		if p.Address != nil {
			return *p.Address, nil
		}
	}
	return "", nil
}
