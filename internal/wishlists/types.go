package wishlists

import (
	"time"

	"github.com/google/uuid"

	"github.com/wishlane/wishlane-backend/internal/catalog"
	"github.com/wishlane/wishlane-backend/pkg/db/models"
)

// WishlistDTO is the transport shape for a single list without its items.
type WishlistDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemDTO is one placement inside a wishlist, with its product expanded.
type ItemDTO struct {
	ID        uuid.UUID          `json:"id"`
	Product   catalog.ProductDTO `json:"product"`
	CreatedAt time.Time          `json:"created_at"`
}

// WishlistDetailDTO is the full wishlist view.
type WishlistDetailDTO struct {
	WishlistDTO
	Items []ItemDTO `json:"items"`
}

func fromModel(w *models.Wishlist) WishlistDTO {
	return WishlistDTO{
		ID:        w.ID,
		Name:      w.Name,
		IsDefault: w.IsDefault(),
		ItemCount: len(w.Items),
		CreatedAt: w.CreatedAt,
	}
}
