package domain

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
	RoleRenter Role = "renter"
)

// Actor is the authenticated caller of an operation. Identity is
// established outside the core; the core only reads it.
type Actor struct {
	UserID int32
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
