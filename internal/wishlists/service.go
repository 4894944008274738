package wishlists

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wishlane/wishlane-backend/internal/catalog"
	"github.com/wishlane/wishlane-backend/pkg/db"
	"github.com/wishlane/wishlane-backend/pkg/db/models"
	pkgerrors "github.com/wishlane/wishlane-backend/pkg/errors"
)

// Service exposes business rules for wishlist management.
type Service interface {
	EnsureDefault(ctx context.Context, ownerID uuid.UUID) (*WishlistDTO, error)
	Create(ctx context.Context, ownerID uuid.UUID, name string) (*WishlistDTO, error)
	Delete(ctx context.Context, ownerID uuid.UUID, name string) error
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]WishlistDTO, error)
	Get(ctx context.Context, ownerID uuid.UUID, name string) (*WishlistDetailDTO, error)
	AddItem(ctx context.Context, ownerID uuid.UUID, wishlistName string, productID uuid.UUID) (*ItemDTO, error)
	RemoveItem(ctx context.Context, ownerID, productID uuid.UUID) error
	ListWished(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	ProductRepo  *catalog.Repository
}

type service struct {
	wishlistRepo *Repository
	productRepo  *catalog.Repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wishlist repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repo is required")
	}
	return &service{
		wishlistRepo: params.WishlistRepo,
		productRepo:  params.ProductRepo,
	}, nil
}

// EnsureDefault guarantees the owner's "default" list exists. Safe to call
// any number of times.
func (s *service) EnsureDefault(ctx context.Context, ownerID uuid.UUID) (*WishlistDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	list, err := s.wishlistRepo.EnsureDefault(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensure default wishlist")
	}
	dto := fromModel(list)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, name string) (*WishlistDTO, error) {
	name = strings.TrimSpace(name)
	if err := validateListName(name); err != nil {
		return nil, err
	}
	list, err := s.wishlistRepo.Create(ctx, ownerID, name)
	if err != nil {
		if db.IsUniqueViolation(err, "wishlists_owner_name_key") || db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a wishlist with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create wishlist")
	}
	dto := fromModel(list)
	return &dto, nil
}

// Delete removes the named list and every placement in it. The "default"
// list is deletable like any other; registration is the only point that
// recreates it.
func (s *service) Delete(ctx context.Context, ownerID uuid.UUID, name string) error {
	list, err := s.findList(ctx, ownerID, name)
	if err != nil {
		return err
	}
	if err := s.wishlistRepo.Delete(ctx, list.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete wishlist")
	}
	return nil
}

func (s *service) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]WishlistDTO, error) {
	lists, err := s.wishlistRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wishlists")
	}
	out := make([]WishlistDTO, 0, len(lists))
	for i := range lists {
		out = append(out, fromModel(&lists[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, ownerID uuid.UUID, name string) (*WishlistDetailDTO, error) {
	list, err := s.wishlistRepo.FindDetailed(ctx, ownerID, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wishlist not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist")
	}

	detail := &WishlistDetailDTO{
		WishlistDTO: fromModel(list),
		Items:       make([]ItemDTO, 0, len(list.Items)),
	}
	for _, item := range list.Items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist product")
		}
		detail.Items = append(detail.Items, ItemDTO{
			ID:        item.ID,
			Product:   catalog.FromModel(product),
			CreatedAt: item.CreatedAt,
		})
	}
	return detail, nil
}

// AddItem places a product into the caller's named list. The list must
// already exist; nothing is created implicitly here.
func (s *service) AddItem(ctx context.Context, ownerID uuid.UUID, wishlistName string, productID uuid.UUID) (*ItemDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	list, err := s.findList(ctx, ownerID, wishlistName)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	item, err := s.wishlistRepo.AddItem(ctx, list.ID, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add wishlist item")
	}
	return &ItemDTO{
		ID:        item.ID,
		Product:   catalog.FromModel(product),
		CreatedAt: item.CreatedAt,
	}, nil
}

// RemoveItem drops one placement of the product. Placements in the "default"
// list are left alone; the call still succeeds.
func (s *service) RemoveItem(ctx context.Context, ownerID, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	item, listName, err := s.wishlistRepo.FindPlacement(ctx, ownerID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product is not on any wishlist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "locate wishlist item")
	}

	if listName == models.DefaultWishlistName {
		return nil
	}

	if err := s.wishlistRepo.DeleteItem(ctx, item.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove wishlist item")
	}
	return nil
}

func (s *service) ListWished(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.wishlistRepo.ListWishedProductIDs(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wished products")
	}
	return ids, nil
}

func (s *service) findList(ctx context.Context, ownerID uuid.UUID, name string) (*models.Wishlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist name is required")
	}
	list, err := s.wishlistRepo.FindByOwnerAndName(ctx, ownerID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wishlist not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist")
	}
	return list, nil
}

func validateListName(name string) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "wishlist name is required")
	}
	if len(name) > 64 {
		return pkgerrors.New(pkgerrors.CodeValidation, "wishlist name is too long")
	}
	return nil
}
