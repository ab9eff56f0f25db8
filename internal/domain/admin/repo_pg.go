package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitedock/sitedock/internal/platform/db"
)

// ErrDuplicateEmail reports a user create that hit the unique email index.
var ErrDuplicateEmail = errors.New("email already in use")

const uniqueViolation = "23505"

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) CreateOrganization(ctx context.Context, org *Organization) error {
	q := `INSERT INTO organization (name, slug) VALUES ($1, $2)
	RETURNING id, created_at`
	err := r.conn(ctx).QueryRow(ctx, q, org.Name, org.Slug).Scan(&org.ID, &org.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (r *repoPG) GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error) {
	q := `SELECT id, name, slug, created_at FROM organization WHERE id = $1`
	org := &Organization{}
	if err := r.conn(ctx).QueryRow(ctx, q, id).Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt); err != nil {
		return nil, fmt.Errorf("get organization %s: %w", id, err)
	}
	return org, nil
}

func (r *repoPG) GetOrganizationBySlug(ctx context.Context, slug string) (*Organization, error) {
	q := `SELECT id, name, slug, created_at FROM organization WHERE slug = $1`
	org := &Organization{}
	if err := r.conn(ctx).QueryRow(ctx, q, slug).Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt); err != nil {
		return nil, fmt.Errorf("get organization %q: %w", slug, err)
	}
	return org, nil
}

func (r *repoPG) ListOrganizations(ctx context.Context) ([]*Organization, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id, name, slug, created_at FROM organization ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var out []*Organization
	for rows.Next() {
		org := &Organization{}
		if err := rows.Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

const userCols = `id, tenant_id, email, full_name, roles, active, created_at, updated_at`

func (r *repoPG) CreateUser(ctx context.Context, u *User) error {
	q := `INSERT INTO app_user (tenant_id, email, full_name, roles, active)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at, updated_at`
	err := r.conn(ctx).QueryRow(ctx, q,
		u.TenantID, u.Email, u.FullName, u.Roles, u.Active,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *repoPG) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	q := `SELECT ` + userCols + ` FROM app_user WHERE id = $1`
	u := &User{}
	err := r.conn(ctx).QueryRow(ctx, q, id).Scan(
		&u.ID, &u.TenantID, &u.Email, &u.FullName, &u.Roles, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (r *repoPG) UpdateUser(ctx context.Context, u *User) error {
	q := `UPDATE app_user SET
		email = $2, full_name = $3, roles = $4, active = $5, updated_at = now()
	WHERE id = $1
	RETURNING updated_at`
	err := r.conn(ctx).QueryRow(ctx, q,
		u.ID, u.Email, u.FullName, u.Roles, u.Active,
	).Scan(&u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update user %s: %w", u.ID, err)
	}
	return nil
}

func (r *repoPG) ListUsers(ctx context.Context, tenantID string, limit, offset int) ([]*User, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM app_user WHERE tenant_id = $1`, tenantID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	q := `SELECT ` + userCols + ` FROM app_user WHERE tenant_id = $1
	ORDER BY full_name LIMIT $2 OFFSET $3`
	rows, err := r.conn(ctx).Query(ctx, q, tenantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		u := &User{}
		if err := rows.Scan(
			&u.ID, &u.TenantID, &u.Email, &u.FullName, &u.Roles, &u.Active, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *repoPG) UpsertRole(ctx context.Context, role *Role) error {
	q := `INSERT INTO role (name, description, permissions)
	VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, permissions = EXCLUDED.permissions
	RETURNING created_at`
	err := r.conn(ctx).QueryRow(ctx, q, role.Name, role.Description, role.Permissions).Scan(&role.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert role %q: %w", role.Name, err)
	}
	return nil
}

func (r *repoPG) GetRole(ctx context.Context, name string) (*Role, error) {
	q := `SELECT name, description, permissions, created_at FROM role WHERE name = $1`
	role := &Role{}
	err := r.conn(ctx).QueryRow(ctx, q, name).Scan(
		&role.Name, &role.Description, &role.Permissions, &role.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get role %q: %w", name, err)
	}
	return role, nil
}

func (r *repoPG) ListRoles(ctx context.Context) ([]*Role, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT name, description, permissions, created_at FROM role ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var out []*Role
	for rows.Next() {
		role := &Role{}
		if err := rows.Scan(&role.Name, &role.Description, &role.Permissions, &role.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func (r *repoPG) DeleteRole(ctx context.Context, name string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM role WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete role %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("role %q not found", name)
	}
	return nil
}
