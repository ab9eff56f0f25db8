package safety

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows incident list queries. Zero values mean "no filter".
type ListFilter struct {
	Status     string
	SourceType string
	ProjectID  *uuid.UUID
	Recordable *bool
}

type Repository interface {
	Create(ctx context.Context, inc *Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*Incident, error)
	Update(ctx context.Context, inc *Incident) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Incident, int, error)

	// NextCaseNumber returns the next value of the per-year case counter.
	NextCaseNumber(ctx context.Context, year int) (int, error)
}
