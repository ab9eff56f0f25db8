package portal

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

func (r *repoPG) CreateShare(ctx context.Context, sh *ReportShare) error {
	q := `INSERT INTO portal_share (tenant_id, project_id, token, snapshot)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at`
	err := r.conn(ctx).QueryRow(ctx, q,
		sh.TenantID, sh.ProjectID, sh.Token, sh.Snapshot,
	).Scan(&sh.ID, &sh.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert share: %w", err)
	}
	return nil
}

const shareCols = `id, tenant_id, project_id, token, snapshot, revoked, created_at`

func (r *repoPG) GetShareByToken(ctx context.Context, token string) (*ReportShare, error) {
	q := `SELECT ` + shareCols + ` FROM portal_share WHERE token = $1`
	sh := &ReportShare{}
	err := r.conn(ctx).QueryRow(ctx, q, token).Scan(
		&sh.ID, &sh.TenantID, &sh.ProjectID, &sh.Token, &sh.Snapshot, &sh.Revoked, &sh.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get share by token: %w", err)
	}
	return sh, nil
}

func (r *repoPG) GetShare(ctx context.Context, id uuid.UUID) (*ReportShare, error) {
	q := `SELECT ` + shareCols + ` FROM portal_share WHERE id = $1`
	sh := &ReportShare{}
	err := r.conn(ctx).QueryRow(ctx, q, id).Scan(
		&sh.ID, &sh.TenantID, &sh.ProjectID, &sh.Token, &sh.Snapshot, &sh.Revoked, &sh.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get share %s: %w", id, err)
	}
	return sh, nil
}

func (r *repoPG) ListShares(ctx context.Context, projectID uuid.UUID) ([]*ReportShare, error) {
	q := `SELECT ` + shareCols + ` FROM portal_share WHERE project_id = $1 ORDER BY created_at DESC`
	rows, err := r.conn(ctx).Query(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	var out []*ReportShare
	for rows.Next() {
		sh := &ReportShare{}
		if err := rows.Scan(
			&sh.ID, &sh.TenantID, &sh.ProjectID, &sh.Token, &sh.Snapshot, &sh.Revoked, &sh.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (r *repoPG) RevokeShare(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE portal_share SET revoked = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("revoke share %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("share %s not found", id)
	}
	return nil
}

const itemCols = `id, share_id, title, description, status, responder_name, response_note, responded_at, created_at`

func (r *repoPG) CreateItem(ctx context.Context, it *ActionItem) error {
	q := `INSERT INTO portal_action_item (share_id, title, description, status)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at`
	err := r.conn(ctx).QueryRow(ctx, q,
		it.ShareID, it.Title, it.Description, it.Status,
	).Scan(&it.ID, &it.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert action item: %w", err)
	}
	return nil
}

func (r *repoPG) GetItem(ctx context.Context, id uuid.UUID) (*ActionItem, error) {
	q := `SELECT ` + itemCols + ` FROM portal_action_item WHERE id = $1`
	it := &ActionItem{}
	err := r.conn(ctx).QueryRow(ctx, q, id).Scan(
		&it.ID, &it.ShareID, &it.Title, &it.Description, &it.Status,
		&it.ResponderName, &it.ResponseNote, &it.RespondedAt, &it.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get action item %s: %w", id, err)
	}
	return it, nil
}

func (r *repoPG) UpdateItem(ctx context.Context, it *ActionItem) error {
	q := `UPDATE portal_action_item SET
		status = $2, responder_name = $3, response_note = $4, responded_at = $5
	WHERE id = $1`
	tag, err := r.conn(ctx).Exec(ctx, q,
		it.ID, it.Status, it.ResponderName, it.ResponseNote, it.RespondedAt,
	)
	if err != nil {
		return fmt.Errorf("update action item %s: %w", it.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("action item %s not found", it.ID)
	}
	return nil
}

func (r *repoPG) ListItems(ctx context.Context, shareID uuid.UUID) ([]*ActionItem, error) {
	q := `SELECT ` + itemCols + ` FROM portal_action_item WHERE share_id = $1 ORDER BY created_at ASC`
	rows, err := r.conn(ctx).Query(ctx, q, shareID)
	if err != nil {
		return nil, fmt.Errorf("list action items: %w", err)
	}
	defer rows.Close()

	var out []*ActionItem
	for rows.Next() {
		it := &ActionItem{}
		if err := rows.Scan(
			&it.ID, &it.ShareID, &it.Title, &it.Description, &it.Status,
			&it.ResponderName, &it.ResponseNote, &it.RespondedAt, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan action item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
