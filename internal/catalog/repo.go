package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wishlane/wishlane-backend/pkg/db/models"
	"github.com/wishlane/wishlane-backend/pkg/pagination"
)

// Repository exposes product persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a product. Unique-violation errors surface unchanged so the
// importer can treat them as duplicates.
func (r *Repository) Create(ctx context.Context, dto CreateProductDTO) (*models.Product, error) {
	product := &models.Product{
		ID:          uuid.New(),
		Name:        dto.Name,
		Description: dto.Description,
		ImageURL:    dto.ImageURL,
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByImageURL resolves a product by its image URL, the catalog's natural
// identity.
func (r *Repository) FindByImageURL(ctx context.Context, imageURL string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("image_url = ?", imageURL).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns one catalog page ordered newest first, plus the total count.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
