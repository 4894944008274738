package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultWishlistName is the distinguished per-user list created at
// registration and protected from single-item removal.
const DefaultWishlistName = "default"

// Wishlist is a named, user-owned collection of product placements.
// Names are unique per owner; the owner never changes.
type Wishlist struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:wishlists_owner_name_key"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;not null;uniqueIndex:wishlists_owner_name_key;index"`
	Items     []Item    `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// IsDefault reports whether this is the owner's protected default list.
func (w Wishlist) IsDefault() bool {
	return w.Name == DefaultWishlistName
}
