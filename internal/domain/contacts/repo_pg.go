package contacts

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitedock/sitedock/internal/platform/db"
)

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

const companyCols = `id, name, website, phone, address, archived, created_at, updated_at`

func (r *repoPG) CreateCompany(ctx context.Context, co *Company) error {
	co.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO company (id, name, website, phone, address, archived)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		co.ID, co.Name, co.Website, co.Phone, co.Address, co.Archived,
	)
	return err
}

func (r *repoPG) GetCompany(ctx context.Context, id uuid.UUID) (*Company, error) {
	var co Company
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+companyCols+` FROM company WHERE id = $1`, id).Scan(
		&co.ID, &co.Name, &co.Website, &co.Phone, &co.Address, &co.Archived,
		&co.CreatedAt, &co.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &co, nil
}

func (r *repoPG) UpdateCompany(ctx context.Context, co *Company) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE company SET name=$2, website=$3, phone=$4, address=$5,
			archived=$6, updated_at=NOW()
		WHERE id = $1`,
		co.ID, co.Name, co.Website, co.Phone, co.Address, co.Archived,
	)
	return err
}

func (r *repoPG) ListCompanies(ctx context.Context, includeArchived bool, limit, offset int) ([]*Company, int, error) {
	where := `archived = FALSE`
	if includeArchived {
		where = `1=1`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM company WHERE `+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+companyCols+` FROM company WHERE `+where+
			` ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cos []*Company
	for rows.Next() {
		var co Company
		if err := rows.Scan(&co.ID, &co.Name, &co.Website, &co.Phone, &co.Address,
			&co.Archived, &co.CreatedAt, &co.UpdatedAt); err != nil {
			return nil, 0, err
		}
		cos = append(cos, &co)
	}
	return cos, total, nil
}

const contactCols = `id, company_id, first_name, last_name, email, phone,
	title, tags, notes, archived, created_at, updated_at`

func (r *repoPG) CreateContact(ctx context.Context, c *Contact) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO contact (id, company_id, first_name, last_name, email,
			phone, title, tags, notes, archived)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.ID, c.CompanyID, c.FirstName, c.LastName, c.Email,
		c.Phone, c.Title, c.Tags, c.Notes, c.Archived,
	)
	return err
}

func (r *repoPG) GetContact(ctx context.Context, id uuid.UUID) (*Contact, error) {
	var c Contact
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+contactCols+` FROM contact WHERE id = $1`, id).Scan(
		&c.ID, &c.CompanyID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Title, &c.Tags, &c.Notes, &c.Archived, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repoPG) UpdateContact(ctx context.Context, c *Contact) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE contact SET company_id=$2, first_name=$3, last_name=$4,
			email=$5, phone=$6, title=$7, tags=$8, notes=$9, archived=$10,
			updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.CompanyID, c.FirstName, c.LastName, c.Email, c.Phone,
		c.Title, c.Tags, c.Notes, c.Archived,
	)
	return err
}

func (r *repoPG) Search(ctx context.Context, q string, includeArchived bool, limit, offset int) ([]*Contact, int, error) {
	where := `(c.first_name ILIKE $1 OR c.last_name ILIKE $1
		OR c.email ILIKE $1 OR co.name ILIKE $1)`
	if !includeArchived {
		where += ` AND c.archived = FALSE`
	}
	pattern := "%" + q + "%"

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM contact c LEFT JOIN company co ON co.id = c.company_id
		 WHERE `+where, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT c.id, c.company_id, c.first_name, c.last_name, c.email, c.phone,
			c.title, c.tags, c.notes, c.archived, c.created_at, c.updated_at
		FROM contact c LEFT JOIN company co ON co.id = c.company_id
		WHERE `+where+` ORDER BY c.last_name, c.first_name LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cs []*Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.FirstName, &c.LastName, &c.Email,
			&c.Phone, &c.Title, &c.Tags, &c.Notes, &c.Archived, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		cs = append(cs, &c)
	}
	return cs, total, nil
}
