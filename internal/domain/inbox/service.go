package inbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sitedock/sitedock/internal/platform/ai"
)

// MailSender delivers outbound messages; satisfied by notify.Mailer.
type MailSender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// ReplyDrafter produces suggested reply bodies; satisfied by ai.Assistant.
type ReplyDrafter interface {
	DraftReply(ctx context.Context, req ai.DraftRequest) (string, error)
}

type Service struct {
	repo    Repository
	mailer  MailSender
	drafter ReplyDrafter
	logger  zerolog.Logger
}

func NewService(repo Repository, mailer MailSender, drafter ReplyDrafter, logger zerolog.Logger) *Service {
	return &Service{repo: repo, mailer: mailer, drafter: drafter, logger: logger}
}

type CreateThreadInput struct {
	ProjectID    *uuid.UUID `json:"project_id"`
	Subject      string     `json:"subject"`
	Participants []string   `json:"participants"`
}

func (s *Service) CreateThread(ctx context.Context, tenantID string, in CreateThreadInput) (*Thread, error) {
	th := &Thread{
		TenantID:     tenantID,
		ProjectID:    in.ProjectID,
		Subject:      strings.TrimSpace(in.Subject),
		Participants: in.Participants,
	}
	if err := th.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateThread(ctx, th); err != nil {
		return nil, err
	}
	return th, nil
}

func (s *Service) GetThread(ctx context.Context, id uuid.UUID) (*Thread, []*Message, error) {
	th, err := s.repo.GetThread(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return th, msgs, nil
}

func (s *Service) ListThreads(ctx context.Context, includeArchived bool, limit, offset int) ([]*Thread, int, error) {
	return s.repo.ListThreads(ctx, includeArchived, limit, offset)
}

func (s *Service) ArchiveThread(ctx context.Context, id uuid.UUID) error {
	return s.repo.ArchiveThread(ctx, id)
}

// RecordInbound files a received message on the thread.
func (s *Service) RecordInbound(ctx context.Context, threadID uuid.UUID, from string, to []string, body string) (*Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("body is required")
	}
	if _, err := s.repo.GetThread(ctx, threadID); err != nil {
		return nil, err
	}
	msg := &Message{
		ThreadID:  threadID,
		Direction: MessageInbound,
		State:     MessageStateReceived,
		From:      from,
		To:        to,
		Body:      body,
	}
	if err := s.repo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.repo.TouchThread(ctx, threadID); err != nil {
		return nil, err
	}
	return msg, nil
}

// SaveDraft upserts by draft ID. A zero ID starts a new draft; resaving the
// same ID overwrites the body and bumps updated_at.
func (s *Service) SaveDraft(ctx context.Context, threadID, authorID uuid.UUID, draftID uuid.UUID, body string) (*Draft, error) {
	if _, err := s.repo.GetThread(ctx, threadID); err != nil {
		return nil, err
	}
	if draftID == uuid.Nil {
		draftID = uuid.New()
	}
	d := &Draft{
		ID:       draftID,
		ThreadID: threadID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.repo.SaveDraft(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) GetDraft(ctx context.Context, id uuid.UUID) (*Draft, error) {
	return s.repo.GetDraft(ctx, id)
}

// SendDraft turns the draft into a queued outbound message, deletes the
// draft, and hands delivery to the mailer in the background.
func (s *Service) SendDraft(ctx context.Context, draftID uuid.UUID, from string) (*Message, error) {
	d, err := s.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(d.Body) == "" {
		return nil, fmt.Errorf("draft body is empty")
	}
	th, err := s.repo.GetThread(ctx, d.ThreadID)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		ThreadID:  d.ThreadID,
		Direction: MessageOutbound,
		State:     MessageStateQueued,
		From:      from,
		To:        th.Participants,
		Body:      d.Body,
	}
	if err := s.repo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteDraft(ctx, draftID); err != nil {
		return nil, err
	}
	if err := s.repo.TouchThread(ctx, d.ThreadID); err != nil {
		return nil, err
	}

	go s.deliver(msg, th.Subject)
	return msg, nil
}

func (s *Service) deliver(msg *Message, subject string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	state := MessageStateSent
	if s.mailer == nil {
		state = MessageStateFailed
		s.logger.Warn().
			Str("message_id", msg.ID.String()).
			Msg("no mailer configured, message not delivered")
	} else if err := s.mailer.Send(ctx, msg.To, subject, msg.Body); err != nil {
		state = MessageStateFailed
		s.logger.Warn().Err(err).
			Str("message_id", msg.ID.String()).
			Msg("mail delivery failed")
	}
	if err := s.repo.UpdateMessageState(ctx, msg.ID, state); err != nil {
		s.logger.Warn().Err(err).
			Str("message_id", msg.ID.String()).
			Msg("message state update failed")
	}
}

// AssistDraft asks the assistant for a suggested reply based on the draft's
// thread. The suggestion is returned, not saved; the author decides.
func (s *Service) AssistDraft(ctx context.Context, draftID uuid.UUID, instructions string) (string, error) {
	if s.drafter == nil {
		return "", fmt.Errorf("compose assist is not configured")
	}
	d, err := s.repo.GetDraft(ctx, draftID)
	if err != nil {
		return "", err
	}
	th, err := s.repo.GetThread(ctx, d.ThreadID)
	if err != nil {
		return "", err
	}
	msgs, err := s.repo.ListMessages(ctx, d.ThreadID)
	if err != nil {
		return "", err
	}

	req := ai.DraftRequest{
		Subject:      th.Subject,
		Instructions: instructions,
	}
	for _, m := range msgs {
		req.Thread = append(req.Thread, ai.ThreadMessage{From: m.From, Body: m.Body})
	}
	return s.drafter.DraftReply(ctx, req)
}
