package roles

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wishlane/wishlane-backend/internal/identity"
	"github.com/wishlane/wishlane-backend/pkg/db/models"
)

// seedRoles is the fixed role catalog. Seeding is idempotent so permission
// changes here propagate on the next boot.
var seedRoles = []models.Role{
	{Name: "User", Permissions: identity.MaskUser, IsDefault: true},
	{Name: "Moderator", Permissions: identity.MaskModerator},
	{Name: "Administrator", Permissions: identity.MaskAdministrator},
}

// Repository exposes role persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a roles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Seed upserts the role catalog by name, refreshing permission masks and
// default flags for rows that already exist.
func (r *Repository) Seed(ctx context.Context) error {
	for _, role := range seedRoles {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"permissions", "is_default"}),
			}).
			Create(&models.Role{
				Name:        role.Name,
				Permissions: role.Permissions,
				IsDefault:   role.IsDefault,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// FindDefault returns the role assigned to new registrations.
func (r *Repository) FindDefault(ctx context.Context) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByName retrieves a role by its unique name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByID loads a role by its UUID.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindAdministrator returns the role carrying the full permission mask.
func (r *Repository) FindAdministrator(ctx context.Context) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("permissions = ?", identity.MaskAdministrator).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// List returns every role, for the admin profile editor.
func (r *Repository) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
