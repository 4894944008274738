package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wishlane/wishlane-backend/api/middleware"
	"github.com/wishlane/wishlane-backend/api/responses"
	"github.com/wishlane/wishlane-backend/api/validators"
	"github.com/wishlane/wishlane-backend/internal/catalog"
	"github.com/wishlane/wishlane-backend/internal/wishlists"
	pkgerrors "github.com/wishlane/wishlane-backend/pkg/errors"
	"github.com/wishlane/wishlane-backend/pkg/logger"
	"github.com/wishlane/wishlane-backend/pkg/pagination"
)

type productListResponse struct {
	Products   []catalog.ProductDTO `json:"products"`
	Pagination pagination.Meta      `json:"pagination"`

	// WishedProductIDs is present only for signed-in visitors so the page
	// can render which catalog entries they already track.
	WishedProductIDs []uuid.UUID `json:"wished_product_ids,omitempty"`
}

// ProductList serves the public catalog page. Signed-in visitors get their
// wished product IDs overlaid on the same payload.
func ProductList(svc catalog.Service, wishSvc wishlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		pageSize, err := validators.ParseQueryInt(r, "page_size", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pageDTO, err := svc.List(ctx, pagination.Params{Page: page, PageSize: pageSize})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp := productListResponse{
			Products:   pageDTO.Products,
			Pagination: pageDTO.Pagination,
		}

		if member, ok := middleware.MemberFromContext(ctx); ok && wishSvc != nil {
			wished, err := wishSvc.ListWished(ctx, member.UserID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			resp.WishedProductIDs = wished
		}

		responses.WriteSuccess(w, resp)
	}
}

// ProductGet serves a single catalog entry.
func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "productId"))
		id, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
