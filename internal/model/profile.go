package model

import (
	"time"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Profile mirrors an account at the auth provider. The id is the provider's
// subject; we never store credentials locally.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
