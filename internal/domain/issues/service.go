package issues

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sitedock/sitedock/internal/platform/notify"
)

type Service struct {
	repo     Repository
	notifier notify.Notifier
	logger   zerolog.Logger
}

func NewService(repo Repository, notifier notify.Notifier, logger zerolog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

type CreateIssueInput struct {
	ProjectID   *uuid.UUID `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
}

func (s *Service) CreateIssue(ctx context.Context, tenantID string, reporterID uuid.UUID, in CreateIssueInput) (*Issue, error) {
	iss := &Issue{
		TenantID:    tenantID,
		ProjectID:   in.ProjectID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      StatusOpen,
		Priority:    in.Priority,
		ReporterID:  reporterID,
		AssigneeID:  in.AssigneeID,
		DueDate:     in.DueDate,
	}
	if iss.Priority == "" {
		iss.Priority = PriorityMedium
	}
	if err := iss.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, iss); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("issue_id", iss.ID.String()).
		Str("priority", iss.Priority).
		Msg("issue created")
	return iss, nil
}

func (s *Service) GetIssue(ctx context.Context, id uuid.UUID) (*Issue, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListIssues(ctx context.Context, f ListFilter, limit, offset int) ([]*Issue, int, error) {
	if f.Status != "" && !validStatuses[f.Status] {
		return nil, 0, fmt.Errorf("invalid status filter %q", f.Status)
	}
	if f.Priority != "" && !validPriorities[f.Priority] {
		return nil, 0, fmt.Errorf("invalid priority filter %q", f.Priority)
	}
	return s.repo.List(ctx, f, limit, offset)
}

// TransitionIssue moves the issue through its lifecycle. Resolved stamps
// resolved_at; reopening clears it.
func (s *Service) TransitionIssue(ctx context.Context, id uuid.UUID, to string) (*Issue, error) {
	if !validStatuses[to] {
		return nil, fmt.Errorf("invalid status %q", to)
	}
	iss, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if iss.Status == to {
		return iss, nil
	}
	if !CanTransition(iss.Status, to) {
		return nil, fmt.Errorf("cannot move issue from %s to %s", iss.Status, to)
	}
	iss.Status = to
	switch to {
	case StatusResolved:
		now := time.Now().UTC()
		iss.ResolvedAt = &now
	case StatusOpen, StatusInProgress:
		iss.ResolvedAt = nil
	}
	if err := s.repo.Update(ctx, iss); err != nil {
		return nil, err
	}
	return iss, nil
}

func (s *Service) AssignIssue(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID) (*Issue, error) {
	iss, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if iss.Status == StatusClosed {
		return nil, fmt.Errorf("issue is closed")
	}
	iss.AssigneeID = assigneeID
	if err := s.repo.Update(ctx, iss); err != nil {
		return nil, err
	}
	return iss, nil
}

// AddComment records the comment and notifies every @mentioned handle.
func (s *Service) AddComment(ctx context.Context, issueID, authorID uuid.UUID, body string) (*Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("comment body is required")
	}
	iss, err := s.repo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	cm := &Comment{
		IssueID:  issueID,
		AuthorID: authorID,
		Body:     body,
		Mentions: ExtractMentions(body),
	}
	if err := s.repo.AddComment(ctx, cm); err != nil {
		return nil, err
	}
	if len(cm.Mentions) > 0 {
		s.notifyMentions(iss, cm)
	}
	return cm, nil
}

func (s *Service) ListComments(ctx context.Context, issueID uuid.UUID) ([]*Comment, error) {
	if _, err := s.repo.GetByID(ctx, issueID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, issueID)
}

func (s *Service) notifyMentions(iss *Issue, cm *Comment) {
	ev := notify.Event{
		Kind:       "issue_mention",
		TenantID:   iss.TenantID,
		Title:      fmt.Sprintf("You were mentioned on %q", iss.Title),
		Body:       cm.Body,
		Recipients: cm.Mentions,
	}
	if iss.ProjectID != nil {
		ev.ProjectID = iss.ProjectID.String()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.Notify(ctx, ev); err != nil {
			s.logger.Warn().Err(err).
				Str("issue_id", iss.ID.String()).
				Msg("mention notification failed")
		}
	}()
}
