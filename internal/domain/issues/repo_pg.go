package issues

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

const issueCols = `id, tenant_id, project_id, title, description, status, priority,
	reporter_id, assignee_id, due_date, resolved_at, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, iss *Issue) error {
	q := `INSERT INTO issue (
		tenant_id, project_id, title, description, status, priority,
		reporter_id, assignee_id, due_date
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at, updated_at`
	err := r.conn(ctx).QueryRow(ctx, q,
		iss.TenantID, iss.ProjectID, iss.Title, iss.Description, iss.Status,
		iss.Priority, iss.ReporterID, iss.AssigneeID, iss.DueDate,
	).Scan(&iss.ID, &iss.CreatedAt, &iss.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Issue, error) {
	q := `SELECT ` + issueCols + ` FROM issue WHERE id = $1`
	iss, err := scanIssue(r.conn(ctx).QueryRow(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("get issue %s: %w", id, err)
	}
	return iss, nil
}

func (r *repoPG) Update(ctx context.Context, iss *Issue) error {
	q := `UPDATE issue SET
		title = $2, description = $3, status = $4, priority = $5,
		assignee_id = $6, due_date = $7, resolved_at = $8, updated_at = now()
	WHERE id = $1
	RETURNING updated_at`
	err := r.conn(ctx).QueryRow(ctx, q,
		iss.ID, iss.Title, iss.Description, iss.Status, iss.Priority,
		iss.AssigneeID, iss.DueDate, iss.ResolvedAt,
	).Scan(&iss.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update issue %s: %w", iss.ID, err)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Issue, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		where += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if f.ProjectID != nil {
		args = append(args, *f.ProjectID)
		where += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	if f.AssigneeID != nil {
		args = append(args, *f.AssigneeID)
		where += fmt.Sprintf(" AND assignee_id = $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT count(*) FROM issue`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count issues: %w", err)
	}

	q := `SELECT ` + issueCols + ` FROM issue` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	var out []*Issue
	for rows.Next() {
		iss, err := scanIssueRows(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, iss)
	}
	return out, total, rows.Err()
}

func (r *repoPG) AddComment(ctx context.Context, cm *Comment) error {
	q := `INSERT INTO issue_comment (issue_id, author_id, body, mentions)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at`
	err := r.conn(ctx).QueryRow(ctx, q,
		cm.IssueID, cm.AuthorID, cm.Body, cm.Mentions,
	).Scan(&cm.ID, &cm.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *repoPG) ListComments(ctx context.Context, issueID uuid.UUID) ([]*Comment, error) {
	q := `SELECT id, issue_id, author_id, body, mentions, created_at
	FROM issue_comment WHERE issue_id = $1 ORDER BY created_at ASC`
	rows, err := r.conn(ctx).Query(ctx, q, issueID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []*Comment
	for rows.Next() {
		cm := &Comment{}
		if err := rows.Scan(&cm.ID, &cm.IssueID, &cm.AuthorID, &cm.Body, &cm.Mentions, &cm.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, cm)
	}
	return out, rows.Err()
}

func scanIssue(row pgx.Row) (*Issue, error) {
	iss := &Issue{}
	if err := scanIssueInto(row, iss); err != nil {
		return nil, err
	}
	return iss, nil
}

func scanIssueRows(rows pgx.Rows) (*Issue, error) {
	iss := &Issue{}
	if err := scanIssueInto(rows, iss); err != nil {
		return nil, fmt.Errorf("scan issue: %w", err)
	}
	return iss, nil
}

func scanIssueInto(row pgx.Row, iss *Issue) error {
	return row.Scan(
		&iss.ID, &iss.TenantID, &iss.ProjectID, &iss.Title, &iss.Description,
		&iss.Status, &iss.Priority, &iss.ReporterID, &iss.AssigneeID,
		&iss.DueDate, &iss.ResolvedAt, &iss.CreatedAt, &iss.UpdatedAt,
	)
}
