package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wishlane/wishlane-backend/api/controllers"
	"github.com/wishlane/wishlane-backend/api/middleware"
	"github.com/wishlane/wishlane-backend/internal/auth"
	"github.com/wishlane/wishlane-backend/internal/catalog"
	"github.com/wishlane/wishlane-backend/internal/roles"
	"github.com/wishlane/wishlane-backend/internal/users"
	"github.com/wishlane/wishlane-backend/internal/wishlists"
	"github.com/wishlane/wishlane-backend/pkg/auth/session"
	"github.com/wishlane/wishlane-backend/pkg/config"
	"github.com/wishlane/wishlane-backend/pkg/db"
	"github.com/wishlane/wishlane-backend/pkg/logger"
	"github.com/wishlane/wishlane-backend/pkg/metrics"
	"github.com/wishlane/wishlane-backend/pkg/redis"
	"github.com/wishlane/wishlane-backend/pkg/storage/uploads"
)

// Deps carries everything the router mounts.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           redis.Pinger
	Sessions        session.AccessSessionChecker
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsHandler  http.Handler
	AuthService     auth.Service
	RegisterService auth.RegisterService
	UserService     users.Service
	CatalogService  catalog.Service
	WishlistService wishlists.Service
	RoleRepo        *roles.Repository
	UploadStore     *uploads.Store
	Importer        *catalog.Importer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/register", controllers.AuthRegister(deps.RegisterService, deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
			r.Post("/confirm/{token}", controllers.AuthConfirm(deps.AuthService, logg))
			r.Post("/resend-confirmation", controllers.AuthResendConfirmation(deps.AuthService, logg))
		})
	})

	// Public surfaces. OptionalAuth lets the catalog overlay wished items
	// for signed-in visitors without shutting anyone else out.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg))
		r.Get("/", controllers.ProductList(deps.CatalogService, deps.WishlistService, logg))
		r.Get("/{productId}", controllers.ProductGet(deps.CatalogService, logg))
	})

	r.Route("/api/v1/users/{username}", func(r chi.Router) {
		r.Get("/", controllers.UserProfile(deps.UserService, deps.WishlistService, logg))
		r.Get("/wishlists/{name}", controllers.UserWishlist(deps.UserService, deps.WishlistService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/me", controllers.Me(deps.UserService, logg))
		r.Put("/me", controllers.MeUpdate(deps.UserService, logg))

		r.Route("/wishlists", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(deps.WishlistService, logg))
			r.Post("/", controllers.WishlistCreate(deps.WishlistService, logg))
			r.Get("/wished", controllers.WishlistWishedIDs(deps.WishlistService, logg))
			r.Delete("/items/{productId}", controllers.WishlistRemoveItem(deps.WishlistService, logg))
			r.Get("/{name}", controllers.WishlistGet(deps.WishlistService, logg))
			r.Delete("/{name}", controllers.WishlistDelete(deps.WishlistService, logg))
			r.Post("/{name}/items", controllers.WishlistAddItem(deps.WishlistService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireAdministrator(logg))

		r.Get("/roles", controllers.AdminListRoles(deps.RoleRepo, logg))
		r.Put("/users/{userId}", controllers.AdminUpdateUser(deps.UserService, logg))
		r.Post("/catalog/uploads", controllers.CatalogUpload(deps.UploadStore, logg))
		r.Post("/catalog/imports/{filename}", controllers.CatalogImport(deps.UploadStore, deps.Importer, logg))
	})

	return r
}
