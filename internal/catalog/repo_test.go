package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/wishlane/wishlane-backend/pkg/errors"
	"github.com/wishlane/wishlane-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL UNIQUE,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func createProduct(t *testing.T, repo *Repository, name, imageURL string, created time.Time) {
	t.Helper()
	product, err := repo.Create(context.Background(), CreateProductDTO{
		Name:     name,
		ImageURL: imageURL,
	})
	require.NoError(t, err)
	require.NoError(t, repo.db.Exec(`UPDATE products SET created_at = ? WHERE id = ?`, created, product.ID).Error)
}

func TestListOrdersNewestFirstWithPageMeta(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	createProduct(t, repo, "oldest", "https://img.example/a.png", now.Add(-2*time.Hour))
	createProduct(t, repo, "middle", "https://img.example/b.png", now.Add(-time.Hour))
	createProduct(t, repo, "newest", "https://img.example/c.png", now)

	svc, err := NewService(ServiceParams{Repo: repo})
	require.NoError(t, err)

	page, err := svc.List(context.Background(), pagination.Params{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "newest", page.Products[0].Name)
	assert.Equal(t, "middle", page.Products[1].Name)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Pages)

	second, err := svc.List(context.Background(), pagination.Params{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, second.Products, 1)
	assert.Equal(t, "oldest", second.Products[0].Name)
}

func TestGetUnknownProductIsNotFound(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	svc, err := NewService(ServiceParams{Repo: repo})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
