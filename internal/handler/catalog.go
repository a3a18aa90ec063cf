package handler

import (
	"net/http"

	"github.com/MohannadDev/protoshop-dev/internal/shopify"
)

// listOptions reads the shared filter/sort query parameters.
func listOptions(r *http.Request) shopify.ProductListOptions {
	q := r.URL.Query()
	return shopify.ProductListOptions{
		Query:   q.Get("query"),
		SortKey: q.Get("sort"),
		Reverse: q.Get("reverse") == "true",
	}
}

// ListProducts returns the visible products matching the filter.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.GetProducts(r.Context(), listOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEntity(w, http.StatusOK, products)
}

// GetProduct returns a single product by handle.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), r.PathValue("handle"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if product == nil {
		writeNotFound(w, "product")
		return
	}
	writeEntity(w, http.StatusOK, product)
}

// GetRecommendations returns products related to the product at handle.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), r.PathValue("handle"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if product == nil {
		writeNotFound(w, "product")
		return
	}

	recs, err := h.catalog.GetProductRecommendations(r.Context(), product.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEntity(w, http.StatusOK, recs)
}

// ListCollections returns all visible collections, including the synthetic
// "All products" entry.
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.catalog.GetCollections(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEntity(w, http.StatusOK, collections)
}

// GetCollectionProducts returns the products of one collection. An unknown
// collection is an empty list, matching upstream semantics.
func (h *Handler) GetCollectionProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.GetCollectionProducts(r.Context(), r.PathValue("handle"), listOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEntity(w, http.StatusOK, products)
}

// ListPages returns all static pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.catalog.GetPages(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEntity(w, http.StatusOK, pages)
}

// GetPage returns one static page by handle.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalog.GetPage(r.Context(), r.PathValue("handle"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if page == nil {
		writeNotFound(w, "page")
		return
	}
	writeEntity(w, http.StatusOK, page)
}

// GetMenu returns a navigation menu with local browse paths.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.catalog.GetMenu(r.Context(), r.PathValue("handle"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEntity(w, http.StatusOK, menu)
}
