package admin

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

var slugRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func (o *Organization) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !slugRe.MatchString(o.Slug) {
		return fmt.Errorf("slug must be lowercase letters, digits, and hyphens")
	}
	return nil
}

type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	Roles     []string  `db:"roles" json:"roles"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (u *User) Validate() error {
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("valid email is required")
	}
	if strings.TrimSpace(u.FullName) == "" {
		return fmt.Errorf("full_name is required")
	}
	return nil
}

// Role maps a role name to the permission strings it grants. Permissions
// use the resource.operation form with * wildcards.
type Role struct {
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Permissions []string  `db:"permissions" json:"permissions"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

var permRe = regexp.MustCompile(`^(\*|[a-z_]+)\.(\*|[a-z_]+)$`)

func (r *Role) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	for _, p := range r.Permissions {
		if !permRe.MatchString(p) {
			return fmt.Errorf("invalid permission %q", p)
		}
	}
	return nil
}
