package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is one catalog entry. ImageURL doubles as the dedup key during
// bulk import, so it carries the unique index.
type Product struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	ImageURL    string    `gorm:"column:image_url;not null;uniqueIndex:products_image_url_key"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index"`
}
