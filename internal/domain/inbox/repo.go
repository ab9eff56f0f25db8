package inbox

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateThread(ctx context.Context, th *Thread) error
	GetThread(ctx context.Context, id uuid.UUID) (*Thread, error)
	ListThreads(ctx context.Context, includeArchived bool, limit, offset int) ([]*Thread, int, error)
	TouchThread(ctx context.Context, id uuid.UUID) error
	ArchiveThread(ctx context.Context, id uuid.UUID) error

	AddMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, threadID uuid.UUID) ([]*Message, error)
	UpdateMessageState(ctx context.Context, id uuid.UUID, state string) error

	// SaveDraft inserts or overwrites by draft ID, bumping updated_at.
	SaveDraft(ctx context.Context, d *Draft) error
	GetDraft(ctx context.Context, id uuid.UUID) (*Draft, error)
	DeleteDraft(ctx context.Context, id uuid.UUID) error
}
