package controllers

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wishlane/wishlane-backend/api/responses"
	"github.com/wishlane/wishlane-backend/internal/catalog"
	pkgerrors "github.com/wishlane/wishlane-backend/pkg/errors"
	"github.com/wishlane/wishlane-backend/pkg/logger"
	"github.com/wishlane/wishlane-backend/pkg/storage/uploads"
)

const uploadFormField = "file"

// CatalogUpload accepts a spreadsheet upload and stages it for import.
func CatalogUpload(store *uploads.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload store unavailable"))
			return
		}

		if err := r.ParseMultipartForm(store.MaxSize()); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload"))
			return
		}

		file, header, err := r.FormFile(uploadFormField)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "spreadsheet file is required"))
			return
		}
		defer file.Close()

		saved, err := store.Save(ctx, header.Filename, file)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"filename": saved})
	}
}

// CatalogImport runs a previously staged spreadsheet through the importer
// and reports the per-row outcome.
func CatalogImport(store *uploads.Store, importer *catalog.Importer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil || importer == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "import pipeline unavailable"))
			return
		}

		filename := strings.TrimSpace(chi.URLParam(r, "filename"))
		if filename == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "filename is required"))
			return
		}

		path, err := store.Path(filename)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		f, err := os.Open(path)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open staged spreadsheet"))
			return
		}
		defer f.Close()

		result, err := importer.ImportFromSpreadsheet(ctx, filename, f)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
