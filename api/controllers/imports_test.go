package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/wishlane/wishlane-backend/pkg/config"
	"github.com/wishlane/wishlane-backend/pkg/storage/uploads"
)

func newUploadStore(t *testing.T) *uploads.Store {
	t.Helper()
	store, err := uploads.NewStore(context.Background(), config.UploadsConfig{Dir: t.TempDir(), MaxUploadMB: 1}, nil)
	if err != nil {
		t.Fatalf("create upload store: %v", err)
	}
	return store
}

func multipartUpload(t *testing.T, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(uploadFormField, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestCatalogUploadStagesSpreadsheet(t *testing.T) {
	store := newUploadStore(t)
	handler := CatalogUpload(store, nil)

	body, contentType := multipartUpload(t, "fall catalog.xlsx", []byte("workbook-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/admin/catalog/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	saved := envelope.Data["filename"]
	if saved != "fall_catalog.xlsx" {
		t.Fatalf("expected sanitized filename, got %q", saved)
	}

	path, err := store.Path(saved)
	if err != nil {
		t.Fatalf("expected staged file on disk: %v", err)
	}
	if filepath.Base(path) != saved {
		t.Fatalf("unexpected stored path %s", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read staged file: %v", err)
	}
	if string(content) != "workbook-bytes" {
		t.Fatalf("staged bytes do not match upload")
	}
}

func TestCatalogUploadRejectsDisallowedExtension(t *testing.T) {
	store := newUploadStore(t)
	handler := CatalogUpload(store, nil)

	body, contentType := multipartUpload(t, "catalog.csv", []byte("a,b,c"))
	req := httptest.NewRequest(http.MethodPost, "/admin/catalog/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
