package models

// Roles a principal can hold within a tenant.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleWaiter = "waiter"
)

// Principal is the authenticated identity the station operates as.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// RoleRecord is the backend's role row for a principal. ParentOwnerID is
// empty for tenant owners and set to the owning admin's id for
// staff/waiter accounts.
type RoleRecord struct {
	Role          string `json:"role"`
	ParentOwnerID string `json:"parent_owner_id"`
}
