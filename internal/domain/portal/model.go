package portal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the owner-facing summary frozen at publish time. Shares never
// read live project data; revoking and republishing is the refresh path.
type Snapshot struct {
	ProjectName          string    `json:"project_name"`
	ContractValueCents   int64     `json:"contract_value_cents"`
	ApprovedChangesCents int64     `json:"approved_changes_cents"`
	BilledToDateCents    int64     `json:"billed_to_date_cents"`
	OpenIncidents        int       `json:"open_incidents"`
	RecordableIncidents  int       `json:"recordable_incidents"`
	GeneratedAt          time.Time `json:"generated_at"`
}

type ReportShare struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	ProjectID uuid.UUID `db:"project_id" json:"project_id"`
	Token     string    `db:"token" json:"token"`
	Snapshot  Snapshot  `db:"snapshot" json:"snapshot"`
	Revoked   bool      `db:"revoked" json:"revoked"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewShareToken returns an unguessable URL-safe token.
func NewShareToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

const (
	ItemPending       = "pending"
	ItemApproved      = "approved"
	ItemDeclined      = "declined"
	ItemInfoRequested = "info_requested"
)

var validResponses = map[string]bool{
	ItemApproved:      true,
	ItemDeclined:      true,
	ItemInfoRequested: true,
}

// ActionItem is a decision the owner is asked to make through the portal.
// Every non-pending state is terminal; an item takes exactly one response.
type ActionItem struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	ShareID       uuid.UUID  `db:"share_id" json:"share_id"`
	Title         string     `db:"title" json:"title"`
	Description   string     `db:"description" json:"description,omitempty"`
	Status        string     `db:"status" json:"status"`
	ResponderName string     `db:"responder_name" json:"responder_name,omitempty"`
	ResponseNote  string     `db:"response_note" json:"response_note,omitempty"`
	RespondedAt   *time.Time `db:"responded_at" json:"responded_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Respond applies the single allowed response.
func (it *ActionItem) Respond(status, responderName, note string) error {
	if it.Status != ItemPending {
		return fmt.Errorf("item already %s", it.Status)
	}
	if !validResponses[status] {
		return fmt.Errorf("invalid response %q", status)
	}
	if strings.TrimSpace(responderName) == "" {
		return fmt.Errorf("responder name is required")
	}
	now := time.Now().UTC()
	it.Status = status
	it.ResponderName = strings.TrimSpace(responderName)
	it.ResponseNote = note
	it.RespondedAt = &now
	return nil
}
