package models

import "github.com/google/uuid"

// Role grants a named bundle of permission bits. At most one role is the
// default assigned to new users.
type Role struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Permissions int       `gorm:"column:permissions;not null;default:0"`
	IsDefault   bool      `gorm:"column:is_default;not null;default:false;index"`
}
