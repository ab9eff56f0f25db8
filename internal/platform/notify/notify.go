package notify

import "context"

// Event is a notification produced by the domain layer. Kind selects the
// template used downstream; the remaining fields fill it in.
type Event struct {
	Kind      string // incident_reported, incident_classified, issue_mention, payapp_submitted, portal_response
	TenantID  string
	ProjectID string
	Title     string
	Body      string
	Link      string
	// Recipients holds user identifiers for direct notifications (e.g.
	// mention targets). Channel-level events leave it empty.
	Recipients []string
}

// Notifier delivers domain events to an external channel. Implementations
// must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Multi fans an event out to several notifiers, returning the first error
// after all have been attempted.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) error {
	var firstErr error
	for _, n := range m {
		if err := n.Notify(ctx, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Nop is a no-op notifier used when no channel is configured.
type Nop struct{}

func (Nop) Notify(ctx context.Context, ev Event) error { return nil }
