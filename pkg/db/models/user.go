package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"column:email;not null;uniqueIndex"`
	Username     string     `gorm:"column:username;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Confirmed    bool       `gorm:"column:confirmed;not null;default:false"`
	RoleID       uuid.UUID  `gorm:"column:role_id;type:uuid;not null"`
	Role         *Role      `gorm:"foreignKey:RoleID"`
	Name         *string    `gorm:"column:name"`
	Location     *string    `gorm:"column:location"`
	AboutMe      *string    `gorm:"column:about_me"`
	AvatarHash   string     `gorm:"column:avatar_hash"`
	MemberSince  time.Time  `gorm:"column:member_since;autoCreateTime"`
	LastSeenAt   *time.Time `gorm:"column:last_seen_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
