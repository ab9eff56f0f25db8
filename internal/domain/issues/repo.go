package issues

import (
	"context"

	"github.com/google/uuid"
)

type ListFilter struct {
	Status     string
	Priority   string
	ProjectID  *uuid.UUID
	AssigneeID *uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, iss *Issue) error
	GetByID(ctx context.Context, id uuid.UUID) (*Issue, error)
	Update(ctx context.Context, iss *Issue) error
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Issue, int, error)

	AddComment(ctx context.Context, cm *Comment) error
	ListComments(ctx context.Context, issueID uuid.UUID) ([]*Comment, error)
}
