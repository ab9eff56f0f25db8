package financial

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateChangeOrder(ctx context.Context, co *ChangeOrder) error
	GetChangeOrder(ctx context.Context, id uuid.UUID) (*ChangeOrder, error)
	UpdateChangeOrder(ctx context.Context, co *ChangeOrder) error
	ListChangeOrders(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*ChangeOrder, int, error)
	// NextChangeOrderNumber returns the next sequential CO number for the project.
	NextChangeOrderNumber(ctx context.Context, projectID uuid.UUID) (int, error)

	CreatePayApplication(ctx context.Context, pa *PayApplication) error
	GetPayApplication(ctx context.Context, id uuid.UUID) (*PayApplication, error)
	UpdatePayApplication(ctx context.Context, pa *PayApplication) error
	ListPayApplications(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*PayApplication, int, error)
	NextPayApplicationNumber(ctx context.Context, projectID uuid.UUID) (int, error)
}
