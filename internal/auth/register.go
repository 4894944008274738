package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wishlane/wishlane-backend/internal/roles"
	"github.com/wishlane/wishlane-backend/internal/users"
	"github.com/wishlane/wishlane-backend/internal/wishlists"
	pkgAuth "github.com/wishlane/wishlane-backend/pkg/auth"
	"github.com/wishlane/wishlane-backend/pkg/config"
	"github.com/wishlane/wishlane-backend/pkg/db"
	"github.com/wishlane/wishlane-backend/pkg/db/models"
	pkgerrors "github.com/wishlane/wishlane-backend/pkg/errors"
	"github.com/wishlane/wishlane-backend/pkg/logger"
	"github.com/wishlane/wishlane-backend/pkg/mail"
	"github.com/wishlane/wishlane-backend/pkg/security"
)

// RegisterService handles the account creation transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             txRunner
	Mailer         mail.Sender
	Logger         *logger.Logger
	AppConfig      config.AppConfig
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          txRunner
	mailer      mail.Sender
	logg        *logger.Logger
	appCfg      config.AppConfig
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Mailer == nil {
		params.Mailer = mail.NoopSender{}
	}
	return &registerService{
		db:          params.DB,
		mailer:      params.Mailer,
		logg:        params.Logger,
		appCfg:      params.AppConfig,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		roleRepo := roles.NewRepository(tx)
		wishlistRepo := wishlists.NewRepository(tx)

		role, err := s.resolveRole(ctx, roleRepo, email)
		if err != nil {
			return err
		}

		created, err = userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			Username:     username,
			PasswordHash: passwordHash,
			RoleID:       role.ID,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "users_email_key") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			if db.IsUniqueViolation(err, "users_username_key") {
				return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
			}
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "account already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		created.Role = role

		// every account owns its default list from the first moment
		if _, err := wishlistRepo.EnsureDefault(ctx, created.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create default wishlist")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, created)

	return &RegisterResponse{User: users.FromModel(created)}, nil
}

// resolveRole picks the Administrator role for the configured admin email and
// the default role for everyone else.
func (s *registerService) resolveRole(ctx context.Context, roleRepo *roles.Repository, email string) (*models.Role, error) {
	if s.appCfg.AdminEmail != "" && strings.EqualFold(email, s.appCfg.AdminEmail) {
		role, err := roleRepo.FindAdministrator(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load administrator role")
		}
		return role, nil
	}
	role, err := roleRepo.FindDefault(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "default role missing; roles not seeded")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load default role")
	}
	return role, nil
}

// sendConfirmation mails the confirmation link. Delivery failures are logged
// and never fail the registration.
func (s *registerService) sendConfirmation(ctx context.Context, user *models.User) {
	token, err := pkgAuth.MintConfirmationToken(s.jwtCfg, time.Now().UTC(), user.ID)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "minting confirmation token failed", err)
		}
		return
	}
	if err := s.mailer.SendConfirmation(ctx, user.Email, user.Username, token); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithUserID(ctx, user.ID.String()), "sending confirmation email failed", err)
		}
	}
}
