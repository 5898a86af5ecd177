// Package access holds the authorization rules shared by every resource service.
//
// A request is made by exactly one Caller, which is either an Admin or a
// Candidate. Admins see and change everything; candidates are confined to the
// rows they own.
package access

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/interview-tracker/internal/query"
)

// Role is the persisted role of a user.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCandidate Role = "candidate"
)

// ParseRole converts a stored or submitted role string.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleCandidate:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Action names what a caller wants to do to a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

var (
	// ErrAdminRequired is returned when a candidate reaches an admin-only operation.
	ErrAdminRequired = errors.New("admin access required")
	// ErrSelfDemotion is returned when an admin tries to drop their own admin role.
	ErrSelfDemotion = errors.New("cannot remove your own admin role")
	// ErrSelfDeletion is returned when an admin tries to delete their own account.
	ErrSelfDeletion = errors.New("cannot delete your own account")
)

// Caller is the authenticated identity behind a request.
type Caller interface {
	ID() uuid.UUID
	Address() string
	Role() Role
	sealed()
}

// Admin is a caller with unrestricted access.
type Admin struct {
	UserID uuid.UUID
	Email  string
}

func (a Admin) ID() uuid.UUID   { return a.UserID }
func (a Admin) Address() string { return a.Email }
func (Admin) Role() Role        { return RoleAdmin }
func (Admin) sealed()           {}

// Candidate is a caller confined to their own rows.
type Candidate struct {
	UserID uuid.UUID
	Email  string
}

func (c Candidate) ID() uuid.UUID   { return c.UserID }
func (c Candidate) Address() string { return c.Email }
func (Candidate) Role() Role        { return RoleCandidate }
func (Candidate) sealed()           {}

// NewCaller builds the caller variant for role.
func NewCaller(id uuid.UUID, email string, role Role) (Caller, error) {
	switch role {
	case RoleAdmin:
		return Admin{UserID: id, Email: email}, nil
	case RoleCandidate:
		return Candidate{UserID: id, Email: email}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// IsAdmin reports whether c is an Admin.
func IsAdmin(c Caller) bool {
	_, ok := c.(Admin)
	return ok
}

// CanAccess decides whether c may perform action on a resource owned by ownerID.
// The decision does not depend on the action in the two-role model.
func CanAccess(c Caller, _ Action, ownerID uuid.UUID) bool {
	switch c := c.(type) {
	case Admin:
		return true
	case Candidate:
		return c.UserID == ownerID
	default:
		return false
	}
}

// Owns reports whether c is the owner itself, regardless of role.
func Owns(c Caller, ownerID uuid.UUID) bool {
	return c != nil && c.ID() == ownerID
}

// OwnerScope returns the row filter restricting a listing to what c may see.
// Admins get an absent filter.
func OwnerScope(c Caller, ownerColumn string) query.Filter {
	if IsAdmin(c) {
		return query.Absent()
	}
	if c == nil {
		// Matches nothing: uuid.Nil is never issued as a user id.
		return query.Eq(ownerColumn, uuid.Nil)
	}
	return query.Eq(ownerColumn, c.ID())
}

// RequireAdmin fails unless c is an Admin.
func RequireAdmin(c Caller) error {
	if !IsAdmin(c) {
		return ErrAdminRequired
	}
	return nil
}

// CheckRoleChange validates that c may set targetID's role to role.
func CheckRoleChange(c Caller, targetID uuid.UUID, role Role) error {
	if err := RequireAdmin(c); err != nil {
		return err
	}
	if c.ID() == targetID && role != RoleAdmin {
		return ErrSelfDemotion
	}
	return nil
}

// CheckUserDeletion validates that c may delete the user targetID.
func CheckUserDeletion(c Caller, targetID uuid.UUID) error {
	if err := RequireAdmin(c); err != nil {
		return err
	}
	if c.ID() == targetID {
		return ErrSelfDeletion
	}
	return nil
}
