package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wishlane/wishlane-backend/pkg/db/models"
)

// Repository exposes user persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository running on the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email, role preloaded.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername retrieves the user matching the provided username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("username = ?", strings.TrimSpace(username)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLogin resolves a login handle that may be either a username or an
// email address.
func (r *Repository) FindByLogin(ctx context.Context, handle string) (*models.User, error) {
	handle = strings.TrimSpace(handle)
	if strings.Contains(handle, "@") {
		return r.FindByEmail(ctx, handle)
	}
	return r.FindByUsername(ctx, handle)
}

// FindByID loads a user by their UUID, role preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastSeen refreshes the user's last_seen_at timestamp.
func (r *Repository) UpdateLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_seen_at", at).Error
}

// MarkConfirmed flips the confirmed flag on the account.
func (r *Repository) MarkConfirmed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("confirmed", true).Error
}

// UpdateProfile applies the self-service profile fields that are set.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, dto UpdateProfileDTO) error {
	updates := map[string]any{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Location != nil {
		updates["location"] = *dto.Location
	}
	if dto.AboutMe != nil {
		updates["about_me"] = *dto.AboutMe
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// AdminUpdate applies the administrator-editable fields that are set. When
// the email changes the avatar hash is recomputed alongside it.
func (r *Repository) AdminUpdate(ctx context.Context, id uuid.UUID, dto AdminUpdateDTO) error {
	updates := map[string]any{}
	if dto.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*dto.Email))
		updates["email"] = email
		updates["avatar_hash"] = AvatarHash(email)
	}
	if dto.Username != nil {
		updates["username"] = strings.TrimSpace(*dto.Username)
	}
	if dto.Confirmed != nil {
		updates["confirmed"] = *dto.Confirmed
	}
	if dto.RoleID != nil {
		updates["role_id"] = *dto.RoleID
	}
	if dto.Name != nil {
		updates["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Location != nil {
		updates["location"] = strings.TrimSpace(*dto.Location)
	}
	if dto.AboutMe != nil {
		updates["about_me"] = strings.TrimSpace(*dto.AboutMe)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}
