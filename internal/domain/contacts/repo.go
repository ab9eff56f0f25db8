package contacts

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateCompany(ctx context.Context, co *Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*Company, error)
	UpdateCompany(ctx context.Context, co *Company) error
	ListCompanies(ctx context.Context, includeArchived bool, limit, offset int) ([]*Company, int, error)

	CreateContact(ctx context.Context, c *Contact) error
	GetContact(ctx context.Context, id uuid.UUID) (*Contact, error)
	UpdateContact(ctx context.Context, c *Contact) error
	// Search matches q against name, company name, and email.
	Search(ctx context.Context, q string, includeArchived bool, limit, offset int) ([]*Contact, int, error)
}
