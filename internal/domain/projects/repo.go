package projects

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	Update(ctx context.Context, p *Project) error
	List(ctx context.Context, status string, limit, offset int) ([]*Project, int, error)

	CreateWorkOrder(ctx context.Context, wo *WorkOrder) error
	GetWorkOrder(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, wo *WorkOrder) error
	ListWorkOrders(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*WorkOrder, int, error)

	CreateInspection(ctx context.Context, gi *GroundsInspection) error
	GetInspection(ctx context.Context, id uuid.UUID) (*GroundsInspection, error)
	ListInspections(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*GroundsInspection, int, error)
}
