package auth

import (
	"fmt"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/book"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

// Role ids. They are part of the client contract and never change.
const (
	// RoleLibrarian manages the catalog and activates accounts.
	RoleLibrarian uint = 1
	// RoleStudent borrows and returns books.
	RoleStudent uint = 2
)

// Resources a grant can name.
const (
	ResourceBooks     = "books"
	ResourceUsers     = "users"
	ResourceCheckouts = "user_book_checkouts"
)

// Actions a grant can name.
const (
	ActionSelect = "SELECT"
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Column scopes with a special meaning.
const (
	// ColumnAll covers every column of the resource.
	ColumnAll = "*"
	// ColumnNone is used by row level actions such as INSERT and DELETE.
	ColumnNone = "N/A"
	// ColumnActiveStatus is the account activation flag.
	ColumnActiveStatus = "is_active_account"
)

// Grant is one (role, resource, action, column scope) shape.
type Grant struct {
	Role     uint
	Resource string
	Action   string
	Column   string
}

func (g Grant) String() string {
	return fmt.Sprintf("%d:%s:%s:%s", g.Role, g.Resource, g.Action, g.Column)
}

// Model converts the grant into its persisted form.
func (g Grant) Model() models.PermissionGrant {
	return models.PermissionGrant{
		RoleID:      g.Role,
		Resource:    g.Resource,
		Action:      g.Action,
		ColumnScope: g.Column,
	}
}

// IsKnownRole reports whether id names one of the fixed roles.
func IsKnownRole(id uint) bool {
	return id == RoleLibrarian || id == RoleStudent
}

func isKnownResource(r string) bool {
	switch r {
	case ResourceBooks, ResourceUsers, ResourceCheckouts:
		return true
	}

	return false
}

func isKnownAction(a string) bool {
	switch a {
	case ActionSelect, ActionInsert, ActionUpdate, ActionDelete:
		return true
	}

	return false
}

// DefaultRoles returns the fixed role set.
func DefaultRoles() []models.Role {
	return []models.Role{
		{RoleID: RoleLibrarian, RoleName: "librarian"},
		{RoleID: RoleStudent, RoleName: "student"},
	}
}

// DefaultGrants returns the grants seeded into an empty ledger.
func DefaultGrants() []models.PermissionGrant {
	grants := []Grant{
		{RoleLibrarian, ResourceUsers, ActionDelete, ColumnNone},
		{RoleLibrarian, ResourceUsers, ActionUpdate, ColumnActiveStatus},
		{RoleLibrarian, ResourceUsers, ActionSelect, ColumnAll},
		{RoleLibrarian, ResourceBooks, ActionSelect, ColumnAll},
		{RoleLibrarian, ResourceBooks, ActionInsert, ColumnNone},
		{RoleLibrarian, ResourceBooks, ActionDelete, ColumnNone},
	}

	for _, c := range book.Columns() {
		grants = append(grants, Grant{RoleLibrarian, ResourceBooks, ActionUpdate, c})
	}

	grants = append(grants,
		Grant{RoleStudent, ResourceBooks, ActionSelect, ColumnAll},
		Grant{RoleStudent, ResourceBooks, ActionUpdate, book.ColumnAvailable},
		Grant{RoleStudent, ResourceCheckouts, ActionInsert, ColumnNone},
		Grant{RoleStudent, ResourceCheckouts, ActionDelete, ColumnNone},
	)

	out := make([]models.PermissionGrant, 0, len(grants))
	for _, g := range grants {
		out = append(out, g.Model())
	}

	return out
}
