package portal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sitedock/sitedock/internal/platform/notify"
)

// SnapshotBuilder assembles the published summary for a project. The server
// wires it from the projects, financial, and safety services.
type SnapshotBuilder interface {
	BuildSnapshot(ctx context.Context, projectID uuid.UUID) (Snapshot, error)
}

const notifyTimeout = 10 * time.Second

type Service struct {
	repo     Repository
	builder  SnapshotBuilder
	notifier notify.Notifier
	logger   zerolog.Logger
}

func NewService(repo Repository, builder SnapshotBuilder, notifier notify.Notifier, logger zerolog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{repo: repo, builder: builder, notifier: notifier, logger: logger}
}

// PublishShare freezes the project summary and issues a tokenized link.
func (s *Service) PublishShare(ctx context.Context, tenantID string, projectID uuid.UUID) (*ReportShare, error) {
	snap, err := s.builder.BuildSnapshot(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	token, err := NewShareToken()
	if err != nil {
		return nil, err
	}
	sh := &ReportShare{
		TenantID:  tenantID,
		ProjectID: projectID,
		Token:     token,
		Snapshot:  snap,
	}
	if err := s.repo.CreateShare(ctx, sh); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("share_id", sh.ID.String()).
		Str("project_id", projectID.String()).
		Msg("portal share published")
	return sh, nil
}

func (s *Service) ListShares(ctx context.Context, projectID uuid.UUID) ([]*ReportShare, error) {
	return s.repo.ListShares(ctx, projectID)
}

func (s *Service) RevokeShare(ctx context.Context, id uuid.UUID) error {
	return s.repo.RevokeShare(ctx, id)
}

// ViewShare resolves a token for the unauthenticated portal. Revoked shares
// read as not found so the token leaks nothing once pulled.
func (s *Service) ViewShare(ctx context.Context, token string) (*ReportShare, []*ActionItem, error) {
	sh, err := s.repo.GetShareByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if sh.Revoked {
		return nil, nil, fmt.Errorf("share not found")
	}
	items, err := s.repo.ListItems(ctx, sh.ID)
	if err != nil {
		return nil, nil, err
	}
	return sh, items, nil
}

type CreateItemInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Service) CreateItem(ctx context.Context, shareID uuid.UUID, in CreateItemInput) (*ActionItem, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	sh, err := s.repo.GetShare(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if sh.Revoked {
		return nil, fmt.Errorf("share is revoked")
	}
	it := &ActionItem{
		ShareID:     shareID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      ItemPending,
	}
	if err := s.repo.CreateItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// RespondToItem records the owner's one allowed response, addressed by
// share token since responders have no tenant session.
func (s *Service) RespondToItem(ctx context.Context, token string, itemID uuid.UUID, status, responderName, note string) (*ActionItem, error) {
	sh, err := s.repo.GetShareByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sh.Revoked {
		return nil, fmt.Errorf("share not found")
	}
	it, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.ShareID != sh.ID {
		return nil, fmt.Errorf("action item does not belong to this share")
	}
	if err := it.Respond(status, responderName, note); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateItem(ctx, it); err != nil {
		return nil, err
	}
	s.notifyResponse(sh, it)
	return it, nil
}

func (s *Service) notifyResponse(sh *ReportShare, it *ActionItem) {
	ev := notify.Event{
		Kind:      "portal_response",
		TenantID:  sh.TenantID,
		ProjectID: sh.ProjectID.String(),
		Title:     fmt.Sprintf("%s: %s", it.Status, it.Title),
		Body:      it.ResponseNote,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, ev); err != nil {
			s.logger.Warn().Err(err).
				Str("item_id", it.ID.String()).
				Msg("portal response notification failed")
		}
	}()
}
