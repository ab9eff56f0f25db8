package contacts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateCompany(ctx context.Context, co *Company) error {
	if strings.TrimSpace(co.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.CreateCompany(ctx, co)
}

func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.repo.GetCompany(ctx, id)
}

func (s *Service) UpdateCompany(ctx context.Context, co *Company) error {
	if strings.TrimSpace(co.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.UpdateCompany(ctx, co)
}

// ArchiveCompany soft-archives the company; contacts keep their linkage.
func (s *Service) ArchiveCompany(ctx context.Context, id uuid.UUID) error {
	co, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return fmt.Errorf("company not found: %w", err)
	}
	co.Archived = true
	return s.repo.UpdateCompany(ctx, co)
}

func (s *Service) ListCompanies(ctx context.Context, includeArchived bool, limit, offset int) ([]*Company, int, error) {
	return s.repo.ListCompanies(ctx, includeArchived, limit, offset)
}

func (s *Service) CreateContact(ctx context.Context, c *Contact) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.CompanyID != nil {
		if _, err := s.repo.GetCompany(ctx, *c.CompanyID); err != nil {
			return fmt.Errorf("company not found: %w", err)
		}
	}
	return s.repo.CreateContact(ctx, c)
}

func (s *Service) GetContact(ctx context.Context, id uuid.UUID) (*Contact, error) {
	return s.repo.GetContact(ctx, id)
}

func (s *Service) UpdateContact(ctx context.Context, c *Contact) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateContact(ctx, c)
}

// ArchiveContact soft-archives; archived contacts drop out of default search.
func (s *Service) ArchiveContact(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return fmt.Errorf("contact not found: %w", err)
	}
	c.Archived = true
	return s.repo.UpdateContact(ctx, c)
}

func (s *Service) SearchContacts(ctx context.Context, q string, includeArchived bool, limit, offset int) ([]*Contact, int, error) {
	return s.repo.Search(ctx, strings.TrimSpace(q), includeArchived, limit, offset)
}
