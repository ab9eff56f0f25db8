package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// builtinRoles are seeded on startup so RequireRole checks always have the
// baseline set to work with. Admin deliberately carries the full wildcard.
var builtinRoles = []Role{
	{Name: "admin", Description: "Full access", Permissions: []string{"*.*"}},
	{Name: "project_manager", Description: "Runs projects", Permissions: []string{
		"projects.*", "issues.*", "incidents.read", "incidents.create",
		"change_orders.*", "pay_applications.*", "contacts.*", "inbox.*", "portal.*",
	}},
	{Name: "safety_manager", Description: "Owns the safety program", Permissions: []string{
		"incidents.*", "projects.read", "issues.*",
	}},
	{Name: "foreman", Description: "Leads field crews", Permissions: []string{
		"projects.read", "issues.*", "incidents.create", "incidents.read",
	}},
	{Name: "field_worker", Description: "Reports from the field", Permissions: []string{
		"issues.create", "issues.read", "incidents.create", "incidents.read",
	}},
	{Name: "office_manager", Description: "Back office", Permissions: []string{
		"contacts.*", "inbox.*", "projects.read",
	}},
	{Name: "accountant", Description: "Handles billing", Permissions: []string{
		"change_orders.*", "pay_applications.*", "contacts.read", "projects.read",
	}},
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// SeedRoles installs any builtin role that is missing. Existing rows win so
// operator edits survive restarts.
func (s *Service) SeedRoles(ctx context.Context) error {
	for _, role := range builtinRoles {
		if _, err := s.repo.GetRole(ctx, role.Name); err == nil {
			continue
		}
		r := role
		if err := s.repo.UpsertRole(ctx, &r); err != nil {
			return fmt.Errorf("seed role %q: %w", role.Name, err)
		}
		s.logger.Info().Str("role", role.Name).Msg("seeded builtin role")
	}
	return nil
}

func (s *Service) CreateOrganization(ctx context.Context, org *Organization) error {
	org.Slug = strings.ToLower(strings.TrimSpace(org.Slug))
	if err := org.Validate(); err != nil {
		return err
	}
	return s.repo.CreateOrganization(ctx, org)
}

func (s *Service) GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error) {
	return s.repo.GetOrganization(ctx, id)
}

func (s *Service) ListOrganizations(ctx context.Context) ([]*Organization, error) {
	return s.repo.ListOrganizations(ctx)
}

type CreateUserInput struct {
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}

func (s *Service) CreateUser(ctx context.Context, tenantID string, in CreateUserInput) (*User, error) {
	u := &User{
		TenantID: tenantID,
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		FullName: strings.TrimSpace(in.FullName),
		Roles:    in.Roles,
		Active:   true,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.validateRoles(ctx, u.Roles); err != nil {
		return nil, err
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) validateRoles(ctx context.Context, roles []string) error {
	for _, name := range roles {
		if _, err := s.repo.GetRole(ctx, name); err != nil {
			return fmt.Errorf("unknown role %q", name)
		}
	}
	return nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, tenantID string, limit, offset int) ([]*User, int, error) {
	return s.repo.ListUsers(ctx, tenantID, limit, offset)
}

func (s *Service) SetUserRoles(ctx context.Context, id uuid.UUID, roles []string) (*User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateRoles(ctx, roles); err != nil {
		return nil, err
	}
	u.Roles = roles
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) SetUserActive(ctx context.Context, id uuid.UUID, active bool) (*User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Active = active
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) SaveRole(ctx context.Context, role *Role) error {
	role.Name = strings.ToLower(strings.TrimSpace(role.Name))
	if err := role.Validate(); err != nil {
		return err
	}
	return s.repo.UpsertRole(ctx, role)
}

func (s *Service) GetRole(ctx context.Context, name string) (*Role, error) {
	return s.repo.GetRole(ctx, name)
}

func (s *Service) ListRoles(ctx context.Context) ([]*Role, error) {
	return s.repo.ListRoles(ctx)
}

// DeleteRole refuses to remove builtins the route tables depend on.
func (s *Service) DeleteRole(ctx context.Context, name string) error {
	for _, b := range builtinRoles {
		if b.Name == name {
			return fmt.Errorf("role %q is builtin and cannot be deleted", name)
		}
	}
	return s.repo.DeleteRole(ctx, name)
}
