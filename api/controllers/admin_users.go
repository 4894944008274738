package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wishlane/wishlane-backend/api/responses"
	"github.com/wishlane/wishlane-backend/api/validators"
	"github.com/wishlane/wishlane-backend/internal/roles"
	"github.com/wishlane/wishlane-backend/internal/users"
	pkgerrors "github.com/wishlane/wishlane-backend/pkg/errors"
	"github.com/wishlane/wishlane-backend/pkg/logger"
)

type adminUpdateUserRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=64"`
	Confirmed *bool   `json:"confirmed,omitempty"`
	RoleID    *string `json:"role_id,omitempty" validate:"omitempty,uuid"`
	Name      *string `json:"name,omitempty" validate:"omitempty,max=64"`
	Location  *string `json:"location,omitempty" validate:"omitempty,max=64"`
	AboutMe   *string `json:"about_me,omitempty" validate:"omitempty,max=2048"`
}

// AdminUpdateUser lets an administrator edit any account, including its role.
func AdminUpdateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "userId"))
		targetID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		var body adminUpdateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto := users.AdminUpdateDTO{
			Email:     body.Email,
			Username:  body.Username,
			Confirmed: body.Confirmed,
			Name:      body.Name,
			Location:  body.Location,
			AboutMe:   body.AboutMe,
		}
		if body.RoleID != nil {
			roleID, err := uuid.Parse(strings.TrimSpace(*body.RoleID))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role id"))
				return
			}
			dto.RoleID = &roleID
		}

		updated, err := svc.AdminUpdate(ctx, targetID, dto)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

type roleDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Permissions int       `json:"permissions"`
	IsDefault   bool      `json:"is_default"`
}

// AdminListRoles returns the role table for the admin user editor.
func AdminListRoles(repo *roles.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if repo == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "role repository unavailable"))
			return
		}

		all, err := repo.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list roles"))
			return
		}

		out := make([]roleDTO, 0, len(all))
		for _, role := range all {
			out = append(out, roleDTO{
				ID:          role.ID,
				Name:        role.Name,
				Permissions: role.Permissions,
				IsDefault:   role.IsDefault,
			})
		}
		responses.WriteSuccess(w, out)
	}
}
