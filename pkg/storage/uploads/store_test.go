package uploads

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wishlane/wishlane-backend/pkg/config"
	"github.com/wishlane/wishlane-backend/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), config.UploadsConfig{
		Dir:         t.TempDir(),
		MaxUploadMB: 1,
	}, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestSaveAndPathRoundTrip(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save(context.Background(), "products.xlsx", strings.NewReader("workbook-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if name != "products.xlsx" {
		t.Fatalf("unexpected stored name %q", name)
	}

	path, err := store.Path("products.xlsx")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "workbook-bytes" {
		t.Fatalf("unexpected stored contents %q", data)
	}
}

func TestSaveStripsPathComponents(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save(context.Background(), filepath.Join("..", "..", "evil catalog!.xlsx"), strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if name != "evil_catalog_.xlsx" {
		t.Fatalf("unexpected sanitized name %q", name)
	}
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(context.Background(), "catalog.csv", strings.NewReader("x"))
	appErr := errors.As(err)
	if appErr == nil || appErr.Code() != errors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	store := newTestStore(t)

	big := strings.NewReader(strings.Repeat("a", int(store.MaxSize())+1))
	_, err := store.Save(context.Background(), "big.xlsx", big)
	appErr := errors.As(err)
	if appErr == nil || appErr.Code() != errors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPathUnknownFile(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Path("missing.xlsx")
	appErr := errors.As(err)
	if appErr == nil || appErr.Code() != errors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
