package financial

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ChangeOrderPending  = "pending"
	ChangeOrderApproved = "approved"
	ChangeOrderRejected = "rejected"
)

var validChangeOrderStatuses = map[string]bool{
	ChangeOrderPending:  true,
	ChangeOrderApproved: true,
	ChangeOrderRejected: true,
}

// ChangeOrder records a contract amount delta. AmountCents may be negative
// for deductive change orders.
type ChangeOrder struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	TenantID    string     `db:"tenant_id" json:"tenant_id"`
	ProjectID   uuid.UUID  `db:"project_id" json:"project_id"`
	Number      int        `db:"number" json:"number"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description,omitempty"`
	AmountCents int64      `db:"amount_cents" json:"amount_cents"`
	Status      string     `db:"status" json:"status"`
	DecidedAt   *time.Time `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

func (co *ChangeOrder) Validate() error {
	if strings.TrimSpace(co.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !validChangeOrderStatuses[co.Status] {
		return fmt.Errorf("invalid status %q", co.Status)
	}
	return nil
}

const (
	PayAppDraft     = "draft"
	PayAppSubmitted = "submitted"
	PayAppApproved  = "approved"
	PayAppPaid      = "paid"
)

var payAppTransitions = map[string][]string{
	PayAppDraft:     {PayAppSubmitted},
	PayAppSubmitted: {PayAppApproved, PayAppDraft},
	PayAppApproved:  {PayAppPaid},
	PayAppPaid:      {},
}

func CanTransitionPayApp(from, to string) bool {
	for _, next := range payAppTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PayApplication is a periodic application for payment covering the work
// performed through PeriodTo, in the shape of a G-702 continuation sheet.
type PayApplication struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	TenantID         string     `db:"tenant_id" json:"tenant_id"`
	ProjectID        uuid.UUID  `db:"project_id" json:"project_id"`
	Number           int        `db:"number" json:"number"`
	PeriodTo         time.Time  `db:"period_to" json:"period_to"`
	RetainagePercent float64    `db:"retainage_percent" json:"retainage_percent"`
	Status           string     `db:"status" json:"status"`
	Lines            []LineItem `db:"-" json:"lines"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

type LineItem struct {
	ID                     uuid.UUID `db:"id" json:"id"`
	PayApplicationID       uuid.UUID `db:"pay_application_id" json:"pay_application_id"`
	ItemNumber             int       `db:"item_number" json:"item_number"`
	Description            string    `db:"description" json:"description"`
	ScheduledValueCents    int64     `db:"scheduled_value_cents" json:"scheduled_value_cents"`
	PreviousCompletedCents int64     `db:"previous_completed_cents" json:"previous_completed_cents"`
	WorkCompletedCents     int64     `db:"work_completed_cents" json:"work_completed_cents"`
	StoredMaterialsCents   int64     `db:"stored_materials_cents" json:"stored_materials_cents"`
}

// TotalCompletedAndStoredCents is columns D+E+F on the continuation sheet.
func (li LineItem) TotalCompletedAndStoredCents() int64 {
	return li.PreviousCompletedCents + li.WorkCompletedCents + li.StoredMaterialsCents
}

func (li LineItem) BalanceToFinishCents() int64 {
	return li.ScheduledValueCents - li.TotalCompletedAndStoredCents()
}

// PercentComplete returns 0 for lines with no scheduled value.
func (li LineItem) PercentComplete() float64 {
	if li.ScheduledValueCents == 0 {
		return 0
	}
	return float64(li.TotalCompletedAndStoredCents()) / float64(li.ScheduledValueCents) * 100
}

func (li LineItem) Validate() error {
	if strings.TrimSpace(li.Description) == "" {
		return fmt.Errorf("line description is required")
	}
	if li.ScheduledValueCents < 0 || li.PreviousCompletedCents < 0 ||
		li.WorkCompletedCents < 0 || li.StoredMaterialsCents < 0 {
		return fmt.Errorf("line amounts must be non-negative")
	}
	return nil
}

// Totals summarizes a pay application across its lines.
type Totals struct {
	ScheduledValueCents      int64 `json:"scheduled_value_cents"`
	CompletedAndStoredCents  int64 `json:"completed_and_stored_cents"`
	RetainageCents           int64 `json:"retainage_cents"`
	EarnedLessRetainageCents int64 `json:"earned_less_retainage_cents"`
	BalanceToFinishCents     int64 `json:"balance_to_finish_cents"`
}

func (pa *PayApplication) Totals() Totals {
	var t Totals
	for _, li := range pa.Lines {
		t.ScheduledValueCents += li.ScheduledValueCents
		t.CompletedAndStoredCents += li.TotalCompletedAndStoredCents()
	}
	t.RetainageCents = int64(float64(t.CompletedAndStoredCents) * pa.RetainagePercent / 100)
	t.EarnedLessRetainageCents = t.CompletedAndStoredCents - t.RetainageCents
	t.BalanceToFinishCents = t.ScheduledValueCents - t.CompletedAndStoredCents
	return t
}

func (pa *PayApplication) Validate() error {
	if pa.ProjectID == uuid.Nil {
		return fmt.Errorf("project_id is required")
	}
	if pa.RetainagePercent < 0 || pa.RetainagePercent > 100 {
		return fmt.Errorf("retainage_percent must be between 0 and 100")
	}
	if pa.PeriodTo.IsZero() {
		return fmt.Errorf("period_to is required")
	}
	for i, li := range pa.Lines {
		if err := li.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}
