// Package handler exposes the storefront HTTP surface: product listing,
// search and filtering, derived views, favorites, and product CRUD over the
// process-wide stores.
package handler

import (
	"context"
	"net/http"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/category"
	"github.com/xenking/storefront/internal/store"
)

// Catalog is the part of the remote catalog client the handlers use
// directly; everything else goes through the product store.
type Catalog interface {
	Categories(ctx context.Context) ([]category.Option, error)
	Login(ctx context.Context, username, password string) (*catalog.Session, error)
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// PageLimit is the default page size for list requests.
	PageLimit int
	// DemoUsername and DemoPassword are the hard-coded fallback credentials
	// used when a login request carries none. There is no real authorization
	// model behind the catalog's login.
	DemoUsername string
	DemoPassword string
}

// Handler serves the storefront API over the product and favorites stores.
type Handler struct {
	cfg       Config
	products  *store.Products
	favorites *store.Favorites
	catalog   Catalog
}

// New constructs a Handler.
func New(cfg Config, products *store.Products, favorites *store.Favorites, c Catalog) *Handler {
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 12
	}
	return &Handler{
		cfg:       cfg,
		products:  products,
		favorites: favorites,
		catalog:   c,
	}
}

// Register mounts all API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/view", h.viewProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("POST /api/products", h.createProduct)
	mux.HandleFunc("PUT /api/products/{id}", h.updateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", h.deleteProduct)

	mux.HandleFunc("GET /api/categories", h.listCategories)

	mux.HandleFunc("GET /api/favorites", h.listFavorites)
	mux.HandleFunc("POST /api/favorites", h.addFavorite)
	mux.HandleFunc("POST /api/favorites/toggle", h.toggleFavorite)
	mux.HandleFunc("DELETE /api/favorites/{id}", h.removeFavorite)
	mux.HandleFunc("DELETE /api/favorites", h.clearFavorites)

	mux.HandleFunc("POST /api/login", h.login)
}
