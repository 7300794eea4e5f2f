package models

// Role is one of the fixed account roles. Roles are seeded once and never change at runtime.
type Role struct {
	// RoleID is the numeric identifier clients send as role_id (1 librarian, 2 student).
	RoleID uint `gorm:"column:role_id;primaryKey;autoIncrement:false" json:"role_id"`
	// RoleName is the unique role name (e.g. "librarian").
	RoleName string `gorm:"column:role_name;uniqueIndex;size:50;not null" json:"role_name"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
