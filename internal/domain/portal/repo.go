package portal

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateShare(ctx context.Context, sh *ReportShare) error
	GetShareByToken(ctx context.Context, token string) (*ReportShare, error)
	GetShare(ctx context.Context, id uuid.UUID) (*ReportShare, error)
	ListShares(ctx context.Context, projectID uuid.UUID) ([]*ReportShare, error)
	RevokeShare(ctx context.Context, id uuid.UUID) error

	CreateItem(ctx context.Context, it *ActionItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*ActionItem, error)
	UpdateItem(ctx context.Context, it *ActionItem) error
	ListItems(ctx context.Context, shareID uuid.UUID) ([]*ActionItem, error)
}
