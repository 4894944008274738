package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wishlane/wishlane-backend/api/middleware"
	"github.com/wishlane/wishlane-backend/api/responses"
	"github.com/wishlane/wishlane-backend/api/validators"
	"github.com/wishlane/wishlane-backend/internal/users"
	"github.com/wishlane/wishlane-backend/internal/wishlists"
	pkgerrors "github.com/wishlane/wishlane-backend/pkg/errors"
	"github.com/wishlane/wishlane-backend/pkg/logger"
)

type publicProfileResponse struct {
	Profile   *users.ProfileDTO       `json:"profile"`
	Wishlists []wishlists.WishlistDTO `json:"wishlists"`
}

// Me returns the signed-in user's own account record.
func Me(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		member, ok := middleware.MemberFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		me, err := svc.Me(ctx, member.UserID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, me)
	}
}

type updateProfileRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=64"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=64"`
	AboutMe  *string `json:"about_me,omitempty" validate:"omitempty,max=2000"`
}

// MeUpdate edits the caller's own profile fields.
func MeUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		member, ok := middleware.MemberFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var body updateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.UpdateProfile(ctx, member.UserID, users.UpdateProfileDTO{
			Name:     body.Name,
			Location: body.Location,
			AboutMe:  body.AboutMe,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// UserProfile serves a user's public page: profile fields plus the names of
// their wishlists. It renders the same for every visitor.
func UserProfile(svc users.Service, wishSvc wishlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || wishSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		username := strings.TrimSpace(chi.URLParam(r, "username"))
		if username == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "username is required"))
			return
		}

		profile, err := svc.PublicProfile(ctx, username)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ownerID, err := svc.ResolveUsername(ctx, username)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lists, err := wishSvc.ListForOwner(ctx, ownerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, publicProfileResponse{
			Profile:   profile,
			Wishlists: lists,
		})
	}
}
