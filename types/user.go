package types

import "time"

// Role is the closed set of authorization levels in the system.
type Role string

const (
	RoleWorker     Role = "worker"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// ParseRole validates a raw role string against the closed set.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleWorker, RoleAdmin, RoleSuperadmin:
		return Role(raw), true
	default:
		return "", false
	}
}

// CanManageStock reports whether the role may mutate stock records
// and the shopping list.
func (r Role) CanManageStock() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// CanManageCatalog reports whether the role may create master items.
func (r Role) CanManageCatalog() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// CanApproveUsers reports whether the role may drive the user
// approval workflow.
func (r Role) CanApproveUsers() bool {
	return r == RoleSuperadmin
}

// Status is the lifecycle state of a user account.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus validates a raw status string against the closed set.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(raw), true
	default:
		return "", false
	}
}

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// User represents an account in the system.
// It contains identity, role, and approval metadata.
type User struct {
	// UserID is the unique identifier of the user (USR- prefixed).
	UserID string `json:"user_id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username"`

	// FullName is the user's display name.
	FullName string `json:"full_name"`

	// Role indicates the user's authorization level.
	Role Role `json:"role"`

	// Status is the account's position in the approval workflow.
	Status Status `json:"status"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// RowID is the opaque record-store row identifier backing this
	// user. It is only meaningful to the row store that produced it.
	RowID string `json:"row_id,omitempty"`
}
