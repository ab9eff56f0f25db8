package projects

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

const projectCols = `id, name, address, status, client_contact_id,
	contract_value_cents, retainage_percent, start_date, end_date,
	created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Project) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO project (id, name, address, status, client_contact_id,
			contract_value_cents, retainage_percent, start_date, end_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.Name, p.Address, p.Status, p.ClientContactID,
		p.ContractValueCents, p.RetainagePercent, p.StartDate, p.EndDate,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	var p Project
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+projectCols+` FROM project WHERE id = $1`, id).Scan(
		&p.ID, &p.Name, &p.Address, &p.Status, &p.ClientContactID,
		&p.ContractValueCents, &p.RetainagePercent, &p.StartDate, &p.EndDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Update(ctx context.Context, p *Project) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE project SET name=$2, address=$3, status=$4, client_contact_id=$5,
			contract_value_cents=$6, retainage_percent=$7, start_date=$8,
			end_date=$9, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Address, p.Status, p.ClientContactID,
		p.ContractValueCents, p.RetainagePercent, p.StartDate, p.EndDate,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, status string, limit, offset int) ([]*Project, int, error) {
	where := `1=1`
	args := []interface{}{}
	if status != "" {
		where = `status = $1`
		args = append(args, status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM project WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM project WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			projectCols, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var ps []*Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.Status, &p.ClientContactID,
			&p.ContractValueCents, &p.RetainagePercent, &p.StartDate, &p.EndDate,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		ps = append(ps, &p)
	}
	return ps, total, nil
}

const woCols = `id, project_id, title, description, location, status,
	assignee_id, due_date, created_at, updated_at`

func (r *repoPG) CreateWorkOrder(ctx context.Context, wo *WorkOrder) error {
	wo.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO work_order (id, project_id, title, description, location,
			status, assignee_id, due_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		wo.ID, wo.ProjectID, wo.Title, wo.Description, wo.Location,
		wo.Status, wo.AssigneeID, wo.DueDate,
	)
	return err
}

func (r *repoPG) GetWorkOrder(ctx context.Context, id uuid.UUID) (*WorkOrder, error) {
	var w WorkOrder
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+woCols+` FROM work_order WHERE id = $1`, id).Scan(
		&w.ID, &w.ProjectID, &w.Title, &w.Description, &w.Location, &w.Status,
		&w.AssigneeID, &w.DueDate, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repoPG) UpdateWorkOrder(ctx context.Context, wo *WorkOrder) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE work_order SET title=$2, description=$3, location=$4, status=$5,
			assignee_id=$6, due_date=$7, updated_at=NOW()
		WHERE id = $1`,
		wo.ID, wo.Title, wo.Description, wo.Location, wo.Status,
		wo.AssigneeID, wo.DueDate,
	)
	return err
}

func (r *repoPG) ListWorkOrders(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*WorkOrder, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM work_order WHERE project_id = $1`, projectID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+woCols+` FROM work_order WHERE project_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, projectID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var wos []*WorkOrder
	for rows.Next() {
		var w WorkOrder
		if err := rows.Scan(&w.ID, &w.ProjectID, &w.Title, &w.Description, &w.Location,
			&w.Status, &w.AssigneeID, &w.DueDate, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, 0, err
		}
		wos = append(wos, &w)
	}
	return wos, total, nil
}

const giCols = `id, project_id, inspected_at, inspector_id, location, notes,
	passed, created_at`

func (r *repoPG) CreateInspection(ctx context.Context, gi *GroundsInspection) error {
	gi.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO grounds_inspection (id, project_id, inspected_at,
			inspector_id, location, notes, passed)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		gi.ID, gi.ProjectID, gi.InspectedAt, gi.InspectorID, gi.Location,
		gi.Notes, gi.Passed,
	)
	return err
}

func (r *repoPG) GetInspection(ctx context.Context, id uuid.UUID) (*GroundsInspection, error) {
	var g GroundsInspection
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+giCols+` FROM grounds_inspection WHERE id = $1`, id).Scan(
		&g.ID, &g.ProjectID, &g.InspectedAt, &g.InspectorID, &g.Location,
		&g.Notes, &g.Passed, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repoPG) ListInspections(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*GroundsInspection, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM grounds_inspection WHERE project_id = $1`, projectID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+giCols+` FROM grounds_inspection WHERE project_id = $1
		 ORDER BY inspected_at DESC LIMIT $2 OFFSET $3`, projectID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var gis []*GroundsInspection
	for rows.Next() {
		var g GroundsInspection
		if err := rows.Scan(&g.ID, &g.ProjectID, &g.InspectedAt, &g.InspectorID,
			&g.Location, &g.Notes, &g.Passed, &g.CreatedAt); err != nil {
			return nil, 0, err
		}
		gis = append(gis, &g)
	}
	return gis, total, nil
}
