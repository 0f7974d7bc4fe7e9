package sessiongate

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the registered user model
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          AccountRole `bun:"role,notnull" json:"role,omitempty"`
	Username      string      `bun:"username,notnull,unique" json:"username,omitempty"`
	FirstName     string      `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName      string      `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email         string      `bun:"email" json:"email,omitempty"`
	PasswordHash  string      `bun:"password_hash" json:"-"`
	CreatedAt     *time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsAdmin reports whether the account carries the administrator role flag.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// FullName joins first and last name for display contexts.
func (a *Account) FullName() string {
	if a == nil {
		return ""
	}
	return a.FirstName + " " + a.LastName
}

// Allocation is the portfolio split held for an account. Each account has at
// most one row; provisioning upserts it.
type Allocation struct {
	bun.BaseModel `bun:"table:allocations,alias:alc"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID     uuid.UUID  `bun:"account_id,notnull,unique,type:uuid" json:"account_id,omitempty"`
	Stocks        int        `bun:"stocks,notnull" json:"stocks"`
	Funds         int        `bun:"funds,notnull" json:"funds"`
	Bonds         int        `bun:"bonds,notnull" json:"bonds"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
