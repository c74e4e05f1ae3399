package user

import "fmt"

type Role string

const (
	RoleOwner    Role = "owner"    // Organization owner - full access
	RoleAdmin    Role = "admin"    // Approves leave/sessions, runs payroll
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEmployee:
		return true
	}
	return false
}

// Actor is the authenticated identity performing an operation together with
// its resolved permission set. Services receive it as an explicit argument.
type Actor struct {
	UserID      string
	EmployeeID  string
	Role        Role
	Permissions PermissionSet
}

// NewActor builds an actor whose permissions are resolved from role.
func NewActor(userID, employeeID string, role Role) Actor {
	return Actor{
		UserID:      userID,
		EmployeeID:  employeeID,
		Role:        role,
		Permissions: PermissionsFor(role),
	}
}

// Can checks a single capability.
func (a Actor) Can(p Permission) bool {
	return a.Permissions.Has(p)
}

// Require returns ErrInsufficientPermissions unless the actor holds p.
func (a Actor) Require(p Permission) error {
	if !a.Can(p) {
		return fmt.Errorf("%w: required '%s'", ErrInsufficientPermissions, p)
	}
	return nil
}

// Ref identifies the actor on decisions it records: the employee ID when the
// identity is linked to an employee, otherwise the user ID.
func (a Actor) Ref() string {
	if a.EmployeeID != "" {
		return a.EmployeeID
	}
	return a.UserID
}

// IsEmployee reports whether the actor is the given employee.
func (a Actor) IsEmployee(employeeID string) bool {
	return a.EmployeeID != "" && a.EmployeeID == employeeID
}

// RequireSelfOr allows acting on the actor's own employee record with own,
// and on anyone else's with all.
func (a Actor) RequireSelfOr(employeeID string, own, all Permission) error {
	if a.IsEmployee(employeeID) {
		if a.Can(own) || a.Can(all) {
			return nil
		}
		return a.Require(own)
	}
	return a.Require(all)
}
