package catalog

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/wishlane/wishlane-backend/pkg/db"
	pkgerrors "github.com/wishlane/wishlane-backend/pkg/errors"
	"github.com/wishlane/wishlane-backend/pkg/logger"
	"github.com/wishlane/wishlane-backend/pkg/metrics"
)

// Row outcome labels, also used as metric label values.
const (
	RowImported = "imported"
	RowSkipped  = "skipped"
)

// RowResult reports what happened to one spreadsheet row, in input order.
type RowResult struct {
	Row      int    `json:"row"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
}

// ImportResult summarizes a finished import run.
type ImportResult struct {
	Imported int         `json:"imported"`
	Skipped  int         `json:"skipped"`
	Rows     []RowResult `json:"rows"`
}

// Importer loads products from a catalog workbook. Rows commit independently:
// one bad row never rolls back the rows before it.
type Importer struct {
	repo    *Repository
	logg    *logger.Logger
	metrics *metrics.ImportMetrics
}

// ImporterParams groups dependencies for the catalog importer.
type ImporterParams struct {
	Repo    *Repository
	Logger  *logger.Logger
	Metrics *metrics.ImportMetrics
}

// NewImporter builds an importer with the required dependencies.
func NewImporter(params ImporterParams) (*Importer, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repo is required")
	}
	return &Importer{
		repo:    params.Repo,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// ImportFromSpreadsheet reads the first sheet of the workbook, skips the
// header row and upserts products from the [name, description, image url]
// columns. A row whose image URL already names a product counts as skipped.
func (i *Importer) ImportFromSpreadsheet(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	started := time.Now()

	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open workbook")
	}
	defer func() { _ = workbook.Close() }()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workbook has no sheets")
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read sheet rows")
	}

	result := &ImportResult{Rows: make([]RowResult, 0, max(len(rows)-1, 0))}
	for idx, cells := range rows {
		if idx == 0 {
			continue // header
		}
		result.Rows = append(result.Rows, i.importRow(ctx, idx+1, cells, result))
	}

	i.metrics.ObserveImport(filename, time.Since(started))
	i.metrics.AddRows(RowImported, result.Imported)
	i.metrics.AddRows(RowSkipped, result.Skipped)

	if i.logg != nil {
		i.logg.Info(i.logg.WithFields(ctx, map[string]any{
			"filename": filename,
			"imported": result.Imported,
			"skipped":  result.Skipped,
		}), "catalog import finished")
	}
	return result, nil
}

func (i *Importer) importRow(ctx context.Context, rowNum int, cells []string, result *ImportResult) RowResult {
	row := RowResult{Row: rowNum}
	if len(cells) > 0 {
		row.Name = strings.TrimSpace(cells[0])
	}
	description := ""
	if len(cells) > 1 {
		description = strings.TrimSpace(cells[1])
	}
	if len(cells) > 2 {
		row.ImageURL = strings.TrimSpace(cells[2])
	}

	skip := func(reason string) RowResult {
		row.Status = RowSkipped
		row.Reason = reason
		result.Skipped++
		return row
	}

	if row.Name == "" {
		return skip("missing name")
	}
	if row.ImageURL == "" {
		return skip("missing image url")
	}

	if _, err := i.repo.FindByImageURL(ctx, row.ImageURL); err == nil {
		return skip("image url already in catalog")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return skip("lookup failed: " + err.Error())
	}

	_, err := i.repo.Create(ctx, CreateProductDTO{
		Name:        row.Name,
		Description: description,
		ImageURL:    row.ImageURL,
	})
	if err != nil {
		// a concurrent import can win the race between lookup and insert
		if db.IsUniqueViolation(err, "products_image_url_key") || db.IsUniqueViolation(err, "") {
			return skip("image url already in catalog")
		}
		return skip("insert failed: " + err.Error())
	}

	row.Status = RowImported
	result.Imported++
	return row
}
