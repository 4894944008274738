package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wishlane/wishlane-backend/internal/auth"
	"github.com/wishlane/wishlane-backend/internal/catalog"
	"github.com/wishlane/wishlane-backend/internal/identity"
	"github.com/wishlane/wishlane-backend/internal/users"
	"github.com/wishlane/wishlane-backend/internal/wishlists"
	pkgAuth "github.com/wishlane/wishlane-backend/pkg/auth"
	"github.com/wishlane/wishlane-backend/pkg/auth/session"
	"github.com/wishlane/wishlane-backend/pkg/config"
	pkgerrors "github.com/wishlane/wishlane-backend/pkg/errors"
	"github.com/wishlane/wishlane-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessions struct{}

func (stubSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}
func (stubAuthService) Logout(ctx context.Context, accessID string) error { return nil }
func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return &auth.RefreshResponse{}, nil
}
func (stubAuthService) Confirm(ctx context.Context, userID uuid.UUID, token string) error {
	return nil
}
func (stubAuthService) ResendConfirmation(ctx context.Context, userID uuid.UUID) error { return nil }

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return &auth.RegisterResponse{}, nil
}

type stubUserService struct{}

func (stubUserService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}
func (stubUserService) PublicProfile(ctx context.Context, username string) (*users.ProfileDTO, error) {
	return &users.ProfileDTO{Username: username}, nil
}
func (stubUserService) ResolveUsername(ctx context.Context, username string) (uuid.UUID, error) {
	return uuid.New(), nil
}
func (stubUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, dto users.UpdateProfileDTO) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}
func (stubUserService) AdminUpdate(ctx context.Context, targetID uuid.UUID, dto users.AdminUpdateDTO) (*users.UserDTO, error) {
	return &users.UserDTO{ID: targetID}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) List(ctx context.Context, params pagination.Params) (*catalog.ProductPageDTO, error) {
	return &catalog.ProductPageDTO{}, nil
}
func (stubCatalogService) Get(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

type stubWishlistService struct{}

func (stubWishlistService) EnsureDefault(ctx context.Context, ownerID uuid.UUID) (*wishlists.WishlistDTO, error) {
	return &wishlists.WishlistDTO{}, nil
}
func (stubWishlistService) Create(ctx context.Context, ownerID uuid.UUID, name string) (*wishlists.WishlistDTO, error) {
	return &wishlists.WishlistDTO{Name: name}, nil
}
func (stubWishlistService) Delete(ctx context.Context, ownerID uuid.UUID, name string) error {
	return nil
}
func (stubWishlistService) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]wishlists.WishlistDTO, error) {
	return nil, nil
}
func (stubWishlistService) Get(ctx context.Context, ownerID uuid.UUID, name string) (*wishlists.WishlistDetailDTO, error) {
	return &wishlists.WishlistDetailDTO{}, nil
}
func (stubWishlistService) AddItem(ctx context.Context, ownerID uuid.UUID, wishlistName string, productID uuid.UUID) (*wishlists.ItemDTO, error) {
	return &wishlists.ItemDTO{}, nil
}
func (stubWishlistService) RemoveItem(ctx context.Context, ownerID, productID uuid.UUID) error {
	return nil
}
func (stubWishlistService) ListWished(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func testRouter(t *testing.T) (http.Handler, config.JWTConfig) {
	t.Helper()
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	cfg := &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: jwtCfg,
	}
	handler := NewRouter(Deps{
		Config:          cfg,
		DB:              stubPinger{},
		Redis:           stubPinger{},
		Sessions:        stubSessions{},
		AuthService:     stubAuthService{},
		RegisterService: stubRegisterService{},
		UserService:     stubUserService{},
		CatalogService:  stubCatalogService{},
		WishlistService: stubWishlistService{},
	})
	return handler, jwtCfg
}

func mintToken(t *testing.T, cfg config.JWTConfig, mask int) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:      uuid.New(),
		Username:    "lena",
		Permissions: mask,
		Confirmed:   true,
		JTI:         session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthRoutes(t *testing.T) {
	handler, _ := testRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, rec.Code)
		}
	}
}

func TestCatalogIsPublic(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected anonymous catalog access, got %d", rec.Code)
	}
}

func TestWishlistsRequireAuth(t *testing.T) {
	handler, jwtCfg := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlists/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/wishlists/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, jwtCfg, identity.MaskUser))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}

func TestAdminSurfaceRequiresAdministrator(t *testing.T) {
	handler, jwtCfg := testRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/users/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, jwtCfg, identity.MaskModerator))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for moderator, got %d", rec.Code)
	}
}

func TestPublicProfileRoute(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/lena/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected public profile 200, got %d", rec.Code)
	}
}
