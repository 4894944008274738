package wishlists

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wishlane/wishlane-backend/pkg/db/models"
)

// Repository exposes wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a named list. Unique-violation errors surface unchanged.
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, name string) (*models.Wishlist, error) {
	list := &models.Wishlist{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    name,
	}
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// EnsureDefault makes sure the owner's "default" list exists and returns it.
// Concurrent callers race harmlessly; the insert ignores conflicts and the
// surviving row is re-read.
func (r *Repository) EnsureDefault(ctx context.Context, ownerID uuid.UUID) (*models.Wishlist, error) {
	list := &models.Wishlist{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    models.DefaultWishlistName,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "name"}},
			DoNothing: true,
		}).
		Create(list).Error
	if err != nil {
		return nil, err
	}
	return r.FindByOwnerAndName(ctx, ownerID, models.DefaultWishlistName)
}

// FindByOwnerAndName resolves a list by its natural key, without items.
func (r *Repository) FindByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*models.Wishlist, error) {
	var list models.Wishlist
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// FindDetailed loads a list with its items, oldest placement first.
func (r *Repository) FindDetailed(ctx context.Context, ownerID uuid.UUID, name string) (*models.Wishlist, error) {
	var list models.Wishlist
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("owner_id = ? AND name = ?", ownerID, name).
		First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// ListByOwner returns every list the owner has, ordered by name.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Wishlist, error) {
	var lists []models.Wishlist
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// Delete removes the list row. Items cascade at the database level; the
// explicit item delete keeps backends without FK enforcement consistent.
func (r *Repository) Delete(ctx context.Context, listID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wishlist_id = ?", listID).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Wishlist{}, "id = ?", listID).Error
	})
}

// AddItem records a new placement of the product in the list.
func (r *Repository) AddItem(ctx context.Context, listID, productID uuid.UUID) (*models.Item, error) {
	item := &models.Item{
		ID:         uuid.New(),
		WishlistID: listID,
		ProductID:  productID,
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindPlacement locates one placement of the product among the owner's
// lists, along with the name of the list holding it.
func (r *Repository) FindPlacement(ctx context.Context, ownerID, productID uuid.UUID) (*models.Item, string, error) {
	var row struct {
		ID         uuid.UUID `gorm:"column:id"`
		WishlistID uuid.UUID `gorm:"column:wishlist_id"`
		ProductID  uuid.UUID `gorm:"column:product_id"`
		ListName   string    `gorm:"column:list_name"`
	}
	err := r.db.WithContext(ctx).
		Table("wishlist_items").
		Select("wishlist_items.id, wishlist_items.wishlist_id, wishlist_items.product_id, wishlists.name AS list_name").
		Joins("JOIN wishlists ON wishlists.id = wishlist_items.wishlist_id").
		Where("wishlists.owner_id = ? AND wishlist_items.product_id = ?", ownerID, productID).
		Order("wishlist_items.created_at ASC").
		Limit(1).
		Take(&row).Error
	if err != nil {
		return nil, "", err
	}
	return &models.Item{
		ID:         row.ID,
		WishlistID: row.WishlistID,
		ProductID:  row.ProductID,
	}, row.ListName, nil
}

// DeleteItem removes exactly one placement row.
func (r *Repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", itemID).Error
}

// ListWishedProductIDs returns the distinct products the owner has placed
// across all their lists.
func (r *Repository) ListWishedProductIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("wishlist_items").
		Distinct().
		Joins("JOIN wishlists ON wishlists.id = wishlist_items.wishlist_id").
		Where("wishlists.owner_id = ?", ownerID).
		Pluck("wishlist_items.product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// IsNotFound reports whether the error is the repo's missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
