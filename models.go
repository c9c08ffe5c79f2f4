package useradmin

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserStatus is the lifecycle status of a user account
type UserStatus = string

const (
	// UserStatusActive marks an account that completed onboarding
	UserStatusActive UserStatus = "ACTIVE"
	// UserStatusPending marks an invited account that has not set a password yet
	UserStatusPending UserStatus = "PENDING"
	// UserStatusInactive marks a disabled account
	UserStatusInactive UserStatus = "INACTIVE"
)

// User is the user model
type User struct {
	bun.BaseModel    `bun:"table:users,alias:usr"`
	ID               uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email            string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Fullname         string     `bun:"fullname,notnull" json:"fullname,omitempty"`
	PasswordHash     string     `bun:"password_hash,nullzero" json:"-"`
	ResetToken       string     `bun:"reset_token,nullzero" json:"-"`
	ResetRequestedAt *time.Time `bun:"reset_requested_at,nullzero" json:"-"`
	RoleID           uuid.UUID  `bun:"role_id,notnull,type:uuid" json:"role_id,omitempty"`
	Role             *Role      `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
	Status           UserStatus `bun:"status,notnull" json:"status,omitempty"`
	JoinedAt         *time.Time `bun:"joined_at,nullzero" json:"joined_at,omitempty"`
	CreatedAt        *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt        *time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

// EnsureStatus defaults the status for records that were never transitioned
func (u *User) EnsureStatus() {
	if u.Status == "" {
		u.Status = UserStatusPending
	}
}

// HasPassword reports whether the account can log in with credentials.
// Invited accounts carry no hash until the reset flow completes.
func (u *User) HasPassword() bool {
	return u != nil && u.PasswordHash != ""
}

// IsValidUserStatus checks the status against the closed set we persist
func IsValidUserStatus(status string) bool {
	switch status {
	case UserStatusActive, UserStatusPending, UserStatusInactive:
		return true
	default:
		return false
	}
}

// Role is a named set of capability strings. Roles have no hierarchy; a
// capability is granted iff its name is present in Permissions.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:rol"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull,unique" json:"title,omitempty"`
	Permissions   []string   `bun:"permissions,type:jsonb" json:"permissions,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

// HasPermission checks membership of a capability in the role's permission set
func (r *Role) HasPermission(capability string) bool {
	if r == nil {
		return false
	}
	for _, p := range r.Permissions {
		if p == capability {
			return true
		}
	}
	return false
}
