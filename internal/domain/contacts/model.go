package contacts

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Company maps to the company table.
type Company struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Website   *string   `db:"website" json:"website,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Archived  bool      `db:"archived" json:"archived"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Contact maps to the contact table.
type Contact struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	CompanyID *uuid.UUID `db:"company_id" json:"company_id,omitempty"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name" json:"last_name"`
	Email     *string    `db:"email" json:"email,omitempty"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	Title     *string    `db:"title" json:"title,omitempty"`
	Tags      []string   `db:"tags" json:"tags"`
	Notes     *string    `db:"notes" json:"notes,omitempty"`
	Archived  bool       `db:"archived" json:"archived"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName returns the display name.
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c *Contact) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" && strings.TrimSpace(c.LastName) == "" {
		return fmt.Errorf("a first or last name is required")
	}
	if c.Email != nil && !strings.Contains(*c.Email, "@") {
		return fmt.Errorf("invalid email: %s", *c.Email)
	}
	return nil
}
