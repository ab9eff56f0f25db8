package financial

import (
	"context"
	"fmt"

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

const coCols = `id, tenant_id, project_id, number, title, description,
	amount_cents, status, decided_at, created_at, updated_at`

func (r *repoPG) CreateChangeOrder(ctx context.Context, co *ChangeOrder) error {
	q := `INSERT INTO change_order (tenant_id, project_id, number, title, description, amount_cents, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at`
	err := r.conn(ctx).QueryRow(ctx, q,
		co.TenantID, co.ProjectID, co.Number, co.Title, co.Description, co.AmountCents, co.Status,
	).Scan(&co.ID, &co.CreatedAt, &co.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert change order: %w", err)
	}
	return nil
}

func (r *repoPG) GetChangeOrder(ctx context.Context, id uuid.UUID) (*ChangeOrder, error) {
	q := `SELECT ` + coCols + ` FROM change_order WHERE id = $1`
	co := &ChangeOrder{}
	err := r.conn(ctx).QueryRow(ctx, q, id).Scan(
		&co.ID, &co.TenantID, &co.ProjectID, &co.Number, &co.Title, &co.Description,
		&co.AmountCents, &co.Status, &co.DecidedAt, &co.CreatedAt, &co.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get change order %s: %w", id, err)
	}
	return co, nil
}

func (r *repoPG) UpdateChangeOrder(ctx context.Context, co *ChangeOrder) error {
	q := `UPDATE change_order SET
		title = $2, description = $3, amount_cents = $4, status = $5,
		decided_at = $6, updated_at = now()
	WHERE id = $1
	RETURNING updated_at`
	err := r.conn(ctx).QueryRow(ctx, q,
		co.ID, co.Title, co.Description, co.AmountCents, co.Status, co.DecidedAt,
	).Scan(&co.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update change order %s: %w", co.ID, err)
	}
	return nil
}

func (r *repoPG) ListChangeOrders(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*ChangeOrder, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM change_order WHERE project_id = $1`, projectID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count change orders: %w", err)
	}

	q := `SELECT ` + coCols + ` FROM change_order WHERE project_id = $1
	ORDER BY number ASC LIMIT $2 OFFSET $3`
	rows, err := r.conn(ctx).Query(ctx, q, projectID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list change orders: %w", err)
	}
	defer rows.Close()

	var out []*ChangeOrder
	for rows.Next() {
		co := &ChangeOrder{}
		if err := rows.Scan(
			&co.ID, &co.TenantID, &co.ProjectID, &co.Number, &co.Title, &co.Description,
			&co.AmountCents, &co.Status, &co.DecidedAt, &co.CreatedAt, &co.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan change order: %w", err)
		}
		out = append(out, co)
	}
	return out, total, rows.Err()
}

func (r *repoPG) NextChangeOrderNumber(ctx context.Context, projectID uuid.UUID) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT coalesce(max(number), 0) + 1 FROM change_order WHERE project_id = $1`, projectID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next change order number: %w", err)
	}
	return n, nil
}

func (r *repoPG) CreatePayApplication(ctx context.Context, pa *PayApplication) error {
	q := `INSERT INTO pay_application (tenant_id, project_id, number, period_to, retainage_percent, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at, updated_at`
	err := r.conn(ctx).QueryRow(ctx, q,
		pa.TenantID, pa.ProjectID, pa.Number, pa.PeriodTo, pa.RetainagePercent, pa.Status,
	).Scan(&pa.ID, &pa.CreatedAt, &pa.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert pay application: %w", err)
	}
	for i := range pa.Lines {
		pa.Lines[i].PayApplicationID = pa.ID
		if err := r.insertLine(ctx, &pa.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) insertLine(ctx context.Context, li *LineItem) error {
	q := `INSERT INTO pay_application_line (
		pay_application_id, item_number, description, scheduled_value_cents,
		previous_completed_cents, work_completed_cents, stored_materials_cents
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id`
	err := r.conn(ctx).QueryRow(ctx, q,
		li.PayApplicationID, li.ItemNumber, li.Description, li.ScheduledValueCents,
		li.PreviousCompletedCents, li.WorkCompletedCents, li.StoredMaterialsCents,
	).Scan(&li.ID)
	if err != nil {
		return fmt.Errorf("insert pay application line: %w", err)
	}
	return nil
}

func (r *repoPG) GetPayApplication(ctx context.Context, id uuid.UUID) (*PayApplication, error) {
	q := `SELECT id, tenant_id, project_id, number, period_to, retainage_percent, status, created_at, updated_at
	FROM pay_application WHERE id = $1`
	pa := &PayApplication{}
	err := r.conn(ctx).QueryRow(ctx, q, id).Scan(
		&pa.ID, &pa.TenantID, &pa.ProjectID, &pa.Number, &pa.PeriodTo,
		&pa.RetainagePercent, &pa.Status, &pa.CreatedAt, &pa.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get pay application %s: %w", id, err)
	}
	if err := r.loadLines(ctx, pa); err != nil {
		return nil, err
	}
	return pa, nil
}

func (r *repoPG) loadLines(ctx context.Context, pa *PayApplication) error {
	q := `SELECT id, pay_application_id, item_number, description, scheduled_value_cents,
		previous_completed_cents, work_completed_cents, stored_materials_cents
	FROM pay_application_line WHERE pay_application_id = $1 ORDER BY item_number ASC`
	rows, err := r.conn(ctx).Query(ctx, q, pa.ID)
	if err != nil {
		return fmt.Errorf("load lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var li LineItem
		if err := rows.Scan(
			&li.ID, &li.PayApplicationID, &li.ItemNumber, &li.Description,
			&li.ScheduledValueCents, &li.PreviousCompletedCents,
			&li.WorkCompletedCents, &li.StoredMaterialsCents,
		); err != nil {
			return fmt.Errorf("scan line: %w", err)
		}
		pa.Lines = append(pa.Lines, li)
	}
	return rows.Err()
}

func (r *repoPG) UpdatePayApplication(ctx context.Context, pa *PayApplication) error {
	q := `UPDATE pay_application SET
		period_to = $2, retainage_percent = $3, status = $4, updated_at = now()
	WHERE id = $1
	RETURNING updated_at`
	err := r.conn(ctx).QueryRow(ctx, q,
		pa.ID, pa.PeriodTo, pa.RetainagePercent, pa.Status,
	).Scan(&pa.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update pay application %s: %w", pa.ID, err)
	}
	if _, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM pay_application_line WHERE pay_application_id = $1`, pa.ID,
	); err != nil {
		return fmt.Errorf("replace lines: %w", err)
	}
	for i := range pa.Lines {
		pa.Lines[i].PayApplicationID = pa.ID
		if err := r.insertLine(ctx, &pa.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) ListPayApplications(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*PayApplication, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM pay_application WHERE project_id = $1`, projectID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pay applications: %w", err)
	}

	q := `SELECT id, tenant_id, project_id, number, period_to, retainage_percent, status, created_at, updated_at
	FROM pay_application WHERE project_id = $1 ORDER BY number ASC LIMIT $2 OFFSET $3`
	rows, err := r.conn(ctx).Query(ctx, q, projectID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list pay applications: %w", err)
	}
	defer rows.Close()

	var out []*PayApplication
	for rows.Next() {
		pa := &PayApplication{}
		if err := rows.Scan(
			&pa.ID, &pa.TenantID, &pa.ProjectID, &pa.Number, &pa.PeriodTo,
			&pa.RetainagePercent, &pa.Status, &pa.CreatedAt, &pa.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan pay application: %w", err)
		}
		out = append(out, pa)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, pa := range out {
		if err := r.loadLines(ctx, pa); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

func (r *repoPG) NextPayApplicationNumber(ctx context.Context, projectID uuid.UUID) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT coalesce(max(number), 0) + 1 FROM pay_application WHERE project_id = $1`, projectID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next pay application number: %w", err)
	}
	return n, nil
}
