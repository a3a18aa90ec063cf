// Package handler implements the storefront's JSON HTTP surface. Handlers
// stay thin: they translate requests into gateway/overlay calls and map
// domain results and errors back onto HTTP.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/MohannadDev/protoshop-dev/internal/cache"
	"github.com/MohannadDev/protoshop-dev/internal/domain/catalog"
	"github.com/MohannadDev/protoshop-dev/internal/overlay"
	"github.com/MohannadDev/protoshop-dev/internal/shopify"
)

// cartCookieName holds the session's opaque cart identifier: the only
// client-side state the storefront persists.
const cartCookieName = "cartId"

// Catalog is the read surface handlers consume. Every method returns
// normalized entities or an absent/empty result, never wire shapes.
type Catalog interface {
	GetProducts(ctx context.Context, opts shopify.ProductListOptions) ([]catalog.Product, error)
	GetProduct(ctx context.Context, handle string) (*catalog.Product, error)
	GetProductRecommendations(ctx context.Context, productID string) ([]catalog.Product, error)
	GetCollections(ctx context.Context) ([]catalog.Collection, error)
	GetCollectionProducts(ctx context.Context, handle string, opts shopify.ProductListOptions) ([]catalog.Product, error)
	GetPages(ctx context.Context) ([]catalog.Page, error)
	GetPage(ctx context.Context, handle string) (*catalog.Page, error)
	GetMenu(ctx context.Context, handle string) ([]catalog.MenuItem, error)
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// RevalidationSecret authenticates inbound change notifications.
	RevalidationSecret string
}

// Handler serves the storefront API.
type Handler struct {
	catalog  Catalog
	registry *overlay.Registry
	cache    *cache.Store
	secret   string
}

// New constructs a Handler with the required dependencies.
func New(cfg Config, cat Catalog, registry *overlay.Registry, store *cache.Store) *Handler {
	return &Handler{
		catalog:  cat,
		registry: registry,
		cache:    store,
		secret:   cfg.RevalidationSecret,
	}
}

// Routes registers every endpoint on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{handle}", h.GetProduct)
	mux.HandleFunc("GET /api/products/{handle}/recommendations", h.GetRecommendations)
	mux.HandleFunc("GET /api/collections", h.ListCollections)
	mux.HandleFunc("GET /api/collections/{handle}/products", h.GetCollectionProducts)
	mux.HandleFunc("GET /api/pages", h.ListPages)
	mux.HandleFunc("GET /api/pages/{handle}", h.GetPage)
	mux.HandleFunc("GET /api/menu/{handle}", h.GetMenu)
	mux.HandleFunc("POST /api/cart/init", h.InitCart)
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/add", h.AddCartItem)
	mux.HandleFunc("POST /api/cart/update", h.UpdateCartItem)
	mux.HandleFunc("GET /api/cart/checkout", h.Checkout)
	mux.HandleFunc("POST /api/revalidate", h.Revalidate)
}

// writeEntity marshals a domain entity (or slice) as the response body.
func writeEntity(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage writes a small {"code","message"} body built with jx.
func writeMessage(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError maps gateway failures onto the generic retry affordance; the
// details go to the log, not the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	if errors.Is(err, shopify.ErrTransport) || errors.Is(err, shopify.ErrProtocol) {
		writeMessage(w, http.StatusBadGateway, "storefront temporarily unavailable, please retry")
		return
	}
	writeMessage(w, http.StatusInternalServerError, "internal error")
}

func writeNotFound(w http.ResponseWriter, what string) {
	writeMessage(w, http.StatusNotFound, what+" not found")
}
