// Package models holds the gorm models of the library schema.
package models

// All lists every model in dependency order, ready for AutoMigrate.
func All() []any {
	return []any{
		&Role{},
		&PermissionGrant{},
		&User{},
		&Book{},
		&Checkout{},
	}
}
