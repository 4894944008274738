package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wishlane/wishlane-backend/internal/roles"
	"github.com/wishlane/wishlane-backend/pkg/db"
	"github.com/wishlane/wishlane-backend/pkg/db/models"
	pkgerrors "github.com/wishlane/wishlane-backend/pkg/errors"
)

// Service exposes account profile operations.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	PublicProfile(ctx context.Context, username string) (*ProfileDTO, error)
	ResolveUsername(ctx context.Context, username string) (uuid.UUID, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, dto UpdateProfileDTO) (*UserDTO, error)
	AdminUpdate(ctx context.Context, targetID uuid.UUID, dto AdminUpdateDTO) (*UserDTO, error)
}

// ServiceParams groups dependencies for the users service.
type ServiceParams struct {
	UserRepo *Repository
	RoleRepo *roles.Repository
}

type service struct {
	users *Repository
	roles *roles.Repository
}

// NewService builds a users service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repo is required")
	}
	if params.RoleRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "role repo is required")
	}
	return &service{users: params.UserRepo, roles: params.RoleRepo}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) PublicProfile(ctx context.Context, username string) (*ProfileDTO, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return ProfileFromModel(user), nil
}

// ResolveUsername maps a public username to its account id, for routes that
// address another user's resources.
func (s *service) ResolveUsername(ctx context.Context, username string) (uuid.UUID, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, dto UpdateProfileDTO) (*UserDTO, error) {
	if err := s.users.UpdateProfile(ctx, userID, dto); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return s.Me(ctx, userID)
}

func (s *service) AdminUpdate(ctx context.Context, targetID uuid.UUID, dto AdminUpdateDTO) (*UserDTO, error) {
	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	if dto.RoleID != nil {
		if _, err := s.roles.FindByID(ctx, dto.RoleID.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load role")
		}
	}

	if err := s.users.AdminUpdate(ctx, targetID, dto); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email or username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "admin update user")
	}
	return s.Me(ctx, targetID)
}

func (s *service) findByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}
