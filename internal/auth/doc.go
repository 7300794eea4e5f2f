// Package auth provides authentication and authorization for the library backend.
//
// # Authorization
//
// Authorization is a grant ledger. A grant allows one role a single
// (resource, action, column scope) shape, for example
// (student, "books", "UPDATE", "available_count"). A request is authorized when
// an exact grant exists, or when a grant with the column scope "*" exists for the
// same role, resource and action. There is no inheritance between roles and no
// partial matching. Unknown roles, resources or actions are never authorized.
// A failed lookup is never authorized either; its error is returned so callers
// can tell a storage failure from a denial.
//
// Grants are seeded once at start-up (see DefaultGrants) and never change at
// runtime, so the Service keeps decisions in an LRU cache.
//
// # Authentication
//
// LocalProvider verifies Argon2id password hashes stored with each account and
// registers new accounts. Account ids are role scoped: four digits for
// librarians and nine digits for students (see ValidateAccountID).
//
// Example usage:
//
//	ledger, err := auth.NewService(db, 256)
//	if err != nil {
//	    return err
//	}
//
//	ok, err := ledger.IsAuthorized(nil, auth.Grant{
//	    Role:     auth.RoleStudent,
//	    Resource: auth.ResourceCheckouts,
//	    Action:   auth.ActionInsert,
//	    Column:   auth.ColumnNone,
//	})
package auth
