package projects

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Project lifecycle statuses.
const (
	ProjectActive    = "active"
	ProjectOnHold    = "on_hold"
	ProjectCompleted = "completed"
	ProjectArchived  = "archived"
)

var validProjectStatuses = map[string]bool{
	ProjectActive:    true,
	ProjectOnHold:    true,
	ProjectCompleted: true,
	ProjectArchived:  true,
}

// Work order lifecycle statuses.
const (
	WorkOrderOpen       = "open"
	WorkOrderInProgress = "in_progress"
	WorkOrderCompleted  = "completed"
	WorkOrderCancelled  = "cancelled"
)

// workOrderTransitions lists the allowed status moves. Completed and
// cancelled are terminal.
var workOrderTransitions = map[string][]string{
	WorkOrderOpen:       {WorkOrderInProgress, WorkOrderCancelled},
	WorkOrderInProgress: {WorkOrderCompleted, WorkOrderCancelled},
}

// Project maps to the project table.
type Project struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Address            *string    `db:"address" json:"address,omitempty"`
	Status             string     `db:"status" json:"status"`
	ClientContactID    *uuid.UUID `db:"client_contact_id" json:"client_contact_id,omitempty"`
	ContractValueCents int64      `db:"contract_value_cents" json:"contract_value_cents"`
	RetainagePercent   float64    `db:"retainage_percent" json:"retainage_percent"`
	StartDate          *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate            *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// WorkOrder maps to the work_order table. Work orders are one of the source
// containers a safety incident can be reported from.
type WorkOrder struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ProjectID   uuid.UUID  `db:"project_id" json:"project_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Location    *string    `db:"location" json:"location,omitempty"`
	Status      string     `db:"status" json:"status"`
	AssigneeID  *uuid.UUID `db:"assignee_id" json:"assignee_id,omitempty"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// CanTransition reports whether the work order may move to newStatus.
func (w *WorkOrder) CanTransition(newStatus string) bool {
	for _, s := range workOrderTransitions[w.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// GroundsInspection maps to the grounds_inspection table, the second
// incident source container.
type GroundsInspection struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ProjectID   uuid.UUID `db:"project_id" json:"project_id"`
	InspectedAt time.Time `db:"inspected_at" json:"inspected_at"`
	InspectorID uuid.UUID `db:"inspector_id" json:"inspector_id"`
	Location    *string   `db:"location" json:"location,omitempty"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	Passed      bool      `db:"passed" json:"passed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Validate checks project fields prior to persistence.
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validProjectStatuses[p.Status] {
		return fmt.Errorf("invalid status: %s", p.Status)
	}
	if p.RetainagePercent < 0 || p.RetainagePercent > 100 {
		return fmt.Errorf("retainage_percent must be between 0 and 100")
	}
	return nil
}
