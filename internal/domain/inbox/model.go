package inbox

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MessageInbound = "inbound"
	MessageOutbound = "outbound"
)

const (
	MessageStateReceived = "received"
	MessageStateQueued   = "queued"
	MessageStateSent     = "sent"
	MessageStateFailed   = "failed"
)

type Thread struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	TenantID      string     `db:"tenant_id" json:"tenant_id"`
	ProjectID     *uuid.UUID `db:"project_id" json:"project_id,omitempty"`
	Subject       string     `db:"subject" json:"subject"`
	Participants  []string   `db:"participants" json:"participants"`
	LastMessageAt time.Time  `db:"last_message_at" json:"last_message_at"`
	Archived      bool       `db:"archived" json:"archived"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

func (t *Thread) Validate() error {
	if strings.TrimSpace(t.Subject) == "" {
		return fmt.Errorf("subject is required")
	}
	if len(t.Participants) == 0 {
		return fmt.Errorf("at least one participant is required")
	}
	return nil
}

type Message struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ThreadID  uuid.UUID `db:"thread_id" json:"thread_id"`
	Direction string    `db:"direction" json:"direction"`
	State     string    `db:"state" json:"state"`
	From      string    `db:"from_addr" json:"from"`
	To        []string  `db:"to_addrs" json:"to"`
	Body      string    `db:"body" json:"body"`
	SentAt    *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Draft is a reply in progress. Saving the same draft ID again overwrites
// the body and bumps updated_at.
type Draft struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ThreadID  uuid.UUID `db:"thread_id" json:"thread_id"`
	AuthorID  uuid.UUID `db:"author_id" json:"author_id"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
