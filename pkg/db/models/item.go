package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a single placement of a product into a wishlist. The same product
// may appear across wishlists as distinct rows, so there is no uniqueness
// over (wishlist_id, product_id).
type Item struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WishlistID uuid.UUID `gorm:"column:wishlist_id;type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Item) TableName() string { return "wishlist_items" }
