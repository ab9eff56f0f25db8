package inbox

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

func (r *repoPG) CreateThread(ctx context.Context, th *Thread) error {
	q := `INSERT INTO inbox_thread (tenant_id, project_id, subject, participants, last_message_at)
	VALUES ($1, $2, $3, $4, now())
	RETURNING id, last_message_at, created_at`
	err := r.conn(ctx).QueryRow(ctx, q,
		th.TenantID, th.ProjectID, th.Subject, th.Participants,
	).Scan(&th.ID, &th.LastMessageAt, &th.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert thread: %w", err)
	}
	return nil
}

func (r *repoPG) GetThread(ctx context.Context, id uuid.UUID) (*Thread, error) {
	q := `SELECT id, tenant_id, project_id, subject, participants, last_message_at, archived, created_at
	FROM inbox_thread WHERE id = $1`
	th := &Thread{}
	err := r.conn(ctx).QueryRow(ctx, q, id).Scan(
		&th.ID, &th.TenantID, &th.ProjectID, &th.Subject, &th.Participants,
		&th.LastMessageAt, &th.Archived, &th.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get thread %s: %w", id, err)
	}
	return th, nil
}

func (r *repoPG) ListThreads(ctx context.Context, includeArchived bool, limit, offset int) ([]*Thread, int, error) {
	where := ""
	if !includeArchived {
		where = " WHERE NOT archived"
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT count(*) FROM inbox_thread`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count threads: %w", err)
	}
	q := `SELECT id, tenant_id, project_id, subject, participants, last_message_at, archived, created_at
	FROM inbox_thread` + where + ` ORDER BY last_message_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.conn(ctx).Query(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()

	var out []*Thread
	for rows.Next() {
		th := &Thread{}
		if err := rows.Scan(
			&th.ID, &th.TenantID, &th.ProjectID, &th.Subject, &th.Participants,
			&th.LastMessageAt, &th.Archived, &th.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan thread: %w", err)
		}
		out = append(out, th)
	}
	return out, total, rows.Err()
}

func (r *repoPG) TouchThread(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE inbox_thread SET last_message_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch thread %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("thread %s not found", id)
	}
	return nil
}

func (r *repoPG) ArchiveThread(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE inbox_thread SET archived = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("archive thread %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("thread %s not found", id)
	}
	return nil
}

func (r *repoPG) AddMessage(ctx context.Context, msg *Message) error {
	q := `INSERT INTO inbox_message (thread_id, direction, state, from_addr, to_addrs, body, sent_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at`
	err := r.conn(ctx).QueryRow(ctx, q,
		msg.ThreadID, msg.Direction, msg.State, msg.From, msg.To, msg.Body, msg.SentAt,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *repoPG) ListMessages(ctx context.Context, threadID uuid.UUID) ([]*Message, error) {
	q := `SELECT id, thread_id, direction, state, from_addr, to_addrs, body, sent_at, created_at
	FROM inbox_message WHERE thread_id = $1 ORDER BY created_at ASC`
	rows, err := r.conn(ctx).Query(ctx, q, threadID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []*Message
	for rows.Next() {
		msg := &Message{}
		if err := rows.Scan(
			&msg.ID, &msg.ThreadID, &msg.Direction, &msg.State, &msg.From,
			&msg.To, &msg.Body, &msg.SentAt, &msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

func (r *repoPG) UpdateMessageState(ctx context.Context, id uuid.UUID, state string) error {
	q := `UPDATE inbox_message SET state = $2, sent_at = CASE WHEN $2 = 'sent' THEN now() ELSE sent_at END
	WHERE id = $1`
	tag, err := r.conn(ctx).Exec(ctx, q, id, state)
	if err != nil {
		return fmt.Errorf("update message %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("message %s not found", id)
	}
	return nil
}

func (r *repoPG) SaveDraft(ctx context.Context, d *Draft) error {
	q := `INSERT INTO inbox_draft (id, thread_id, author_id, body)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = now()
	RETURNING created_at, updated_at`
	err := r.conn(ctx).QueryRow(ctx, q, d.ID, d.ThreadID, d.AuthorID, d.Body).
		Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save draft %s: %w", d.ID, err)
	}
	return nil
}

func (r *repoPG) GetDraft(ctx context.Context, id uuid.UUID) (*Draft, error) {
	q := `SELECT id, thread_id, author_id, body, created_at, updated_at
	FROM inbox_draft WHERE id = $1`
	d := &Draft{}
	err := r.conn(ctx).QueryRow(ctx, q, id).Scan(
		&d.ID, &d.ThreadID, &d.AuthorID, &d.Body, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get draft %s: %w", id, err)
	}
	return d, nil
}

func (r *repoPG) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM inbox_draft WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	return nil
}
