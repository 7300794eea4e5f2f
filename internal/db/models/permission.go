package models

// PermissionGrant allows one role a single (resource, action, column scope) shape.
// The four fields together form the primary key, so a grant can not be duplicated.
// ColumnScope is either a concrete column, "*" for every column, or "N/A" for row-level actions.
type PermissionGrant struct {
	// RoleID is the role this grant belongs to.
	RoleID uint `gorm:"column:role_id;primaryKey;autoIncrement:false" json:"role_id"`
	// Role is the associated role (enforced with a foreign key constraint).
	Role Role `gorm:"foreignKey:RoleID;references:RoleID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
	// Resource is the table the grant applies to (e.g. "books").
	Resource string `gorm:"column:table_name;primaryKey;size:64" json:"table_name"`
	// Action is the SQL verb the grant allows (SELECT, INSERT, UPDATE or DELETE).
	Action string `gorm:"column:action;primaryKey;size:16" json:"action"`
	// ColumnScope narrows the grant to one column.
	ColumnScope string `gorm:"column:column_field;primaryKey;size:64" json:"column_field"`
}

// TableName specifies the database table name for the PermissionGrant model.
func (PermissionGrant) TableName() string {
	return "permissions"
}
