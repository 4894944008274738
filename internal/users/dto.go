package users

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wishlane/wishlane-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	Confirmed   bool       `json:"confirmed"`
	Role        string     `json:"role,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Location    *string    `json:"location,omitempty"`
	AboutMe     *string    `json:"about_me,omitempty"`
	AvatarHash  string     `json:"avatar_hash"`
	MemberSince time.Time  `json:"member_since"`
	LastSeenAt  *time.Time `json:"last_seen_at,omitempty"`
}

// ProfileDTO is the public view of a user, safe to show to anyone.
type ProfileDTO struct {
	Username    string     `json:"username"`
	Name        *string    `json:"name,omitempty"`
	Location    *string    `json:"location,omitempty"`
	AboutMe     *string    `json:"about_me,omitempty"`
	AvatarHash  string     `json:"avatar_hash"`
	MemberSince time.Time  `json:"member_since"`
	LastSeenAt  *time.Time `json:"last_seen_at,omitempty"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	Username     string
	PasswordHash string
	RoleID       uuid.UUID
	Confirmed    bool
}

// UpdateProfileDTO carries the self-service profile fields. Nil pointers
// leave the stored value untouched.
type UpdateProfileDTO struct {
	Name     *string
	Location *string
	AboutMe  *string
}

// AdminUpdateDTO carries the fields an administrator may edit on any account.
type AdminUpdateDTO struct {
	Email     *string
	Username  *string
	Confirmed *bool
	RoleID    *uuid.UUID
	Name      *string
	Location  *string
	AboutMe   *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	dto := &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Confirmed:   u.Confirmed,
		Name:        u.Name,
		Location:    u.Location,
		AboutMe:     u.AboutMe,
		AvatarHash:  u.AvatarHash,
		MemberSince: u.MemberSince,
		LastSeenAt:  u.LastSeenAt,
	}
	if u.Role != nil {
		dto.Role = u.Role.Name
	}
	return dto
}

func ProfileFromModel(u *models.User) *ProfileDTO {
	if u == nil {
		return nil
	}
	return &ProfileDTO{
		Username:    u.Username,
		Name:        u.Name,
		Location:    u.Location,
		AboutMe:     u.AboutMe,
		AvatarHash:  u.AvatarHash,
		MemberSince: u.MemberSince,
		LastSeenAt:  u.LastSeenAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	email := strings.ToLower(strings.TrimSpace(c.Email))
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     strings.TrimSpace(c.Username),
		PasswordHash: c.PasswordHash,
		Confirmed:    c.Confirmed,
		RoleID:       c.RoleID,
		AvatarHash:   AvatarHash(email),
	}
}

// AvatarHash derives the Gravatar-style digest of a lowercased email.
func AvatarHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}
