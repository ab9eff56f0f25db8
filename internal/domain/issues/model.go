package issues

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var validStatuses = map[string]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusResolved:   true,
	StatusClosed:     true,
}

var validPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
	PriorityUrgent: true,
}

// statusTransitions defines allowed moves. Closed is terminal; a resolved
// issue can be reopened when the fix does not hold.
var statusTransitions = map[string][]string{
	StatusOpen:       {StatusInProgress, StatusResolved, StatusClosed},
	StatusInProgress: {StatusOpen, StatusResolved, StatusClosed},
	StatusResolved:   {StatusOpen, StatusClosed},
	StatusClosed:     {},
}

func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Issue struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	TenantID    string     `db:"tenant_id" json:"tenant_id"`
	ProjectID   *uuid.UUID `db:"project_id" json:"project_id,omitempty"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description,omitempty"`
	Status      string     `db:"status" json:"status"`
	Priority    string     `db:"priority" json:"priority"`
	ReporterID  uuid.UUID  `db:"reporter_id" json:"reporter_id"`
	AssigneeID  *uuid.UUID `db:"assignee_id" json:"assignee_id,omitempty"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	ResolvedAt  *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

func (i *Issue) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !validStatuses[i.Status] {
		return fmt.Errorf("invalid status %q", i.Status)
	}
	if !validPriorities[i.Priority] {
		return fmt.Errorf("invalid priority %q", i.Priority)
	}
	return nil
}

type Comment struct {
	ID       uuid.UUID `db:"id" json:"id"`
	IssueID  uuid.UUID `db:"issue_id" json:"issue_id"`
	AuthorID uuid.UUID `db:"author_id" json:"author_id"`
	Body     string    `db:"body" json:"body"`
	// Mentions holds the handles extracted from Body at write time.
	Mentions  []string  `db:"mentions" json:"mentions,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

var mentionRe = regexp.MustCompile(`@([a-zA-Z0-9_.-]+)`)

// ExtractMentions returns the unique @handles found in body, in order of
// first appearance, without the leading @.
func ExtractMentions(body string) []string {
	matches := mentionRe.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		handle := m[1]
		if seen[handle] {
			continue
		}
		seen[handle] = true
		out = append(out, handle)
	}
	return out
}
