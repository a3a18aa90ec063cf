package shopify

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/MohannadDev/protoshop-dev/internal/domain/cart"
	"github.com/MohannadDev/protoshop-dev/internal/domain/catalog"
)

// ProductListOptions filters and sorts a product listing.
type ProductListOptions struct {
	Query   string
	SortKey string
	Reverse bool
}

// GetProducts returns the catalog's visible products.
func (c *Client) GetProducts(ctx context.Context, opts ProductListOptions) ([]catalog.Product, error) {
	vars := map[string]any{}
	if opts.Query != "" {
		vars["query"] = opts.Query
	}
	if opts.SortKey != "" {
		vars["sortKey"] = opts.SortKey
		vars["reverse"] = opts.Reverse
	}

	var payload productsPayload
	err := c.send(ctx, gqlRequest{
		op:        "getProducts",
		query:     getProductsQuery,
		variables: vars,
		tags:      []string{TagProducts},
	}, &payload)
	if err != nil {
		return nil, err
	}
	return reshapeProducts(Flatten(payload.Products)), nil
}

// GetProduct returns one product by handle, or nil when it does not exist.
// Hidden products are returned: the caller asked for this handle explicitly.
func (c *Client) GetProduct(ctx context.Context, handle string) (*catalog.Product, error) {
	var payload productPayload
	err := c.send(ctx, gqlRequest{
		op:        "getProduct",
		query:     getProductQuery,
		variables: map[string]any{"handle": handle},
		tags:      []string{TagProducts},
	}, &payload)
	if err != nil {
		return nil, err
	}
	return reshapeProduct(payload.Product, false), nil
}

// GetProductRecommendations returns visible products related to productID.
func (c *Client) GetProductRecommendations(ctx context.Context, productID string) ([]catalog.Product, error) {
	var payload recommendationsPayload
	err := c.send(ctx, gqlRequest{
		op:        "getProductRecommendations",
		query:     getProductRecommendationsQuery,
		variables: map[string]any{"productId": productID},
		tags:      []string{TagProducts},
	}, &payload)
	if err != nil {
		return nil, err
	}
	return reshapeProducts(payload.ProductRecommendations), nil
}

// GetCollections returns all visible collections, prepending the synthetic
// "All" collection and excluding hidden ones.
func (c *Client) GetCollections(ctx context.Context) ([]catalog.Collection, error) {
	var payload collectionsPayload
	err := c.send(ctx, gqlRequest{
		op:    "getCollections",
		query: getCollectionsQuery,
		tags:  []string{TagCollections},
	}, &payload)
	if err != nil {
		return nil, err
	}

	collections := []catalog.Collection{{
		Handle:      "",
		Title:       "All",
		Description: "All products",
		SEO:         catalog.SEO{Title: "All", Description: "All products"},
		Path:        "/search",
		UpdatedAt:   time.Now(),
	}}
	for _, raw := range Flatten(payload.Collections) {
		col := reshapeCollection(&raw)
		if col == nil || strings.HasPrefix(col.Handle, catalog.HiddenCollectionPrefix) {
			continue
		}
		collections = append(collections, *col)
	}
	return collections, nil
}

// GetCollectionProducts returns the visible products of one collection.
// An unknown collection yields an empty list, not an error.
func (c *Client) GetCollectionProducts(ctx context.Context, handle string, opts ProductListOptions) ([]catalog.Product, error) {
	sortKey := opts.SortKey
	if sortKey == "CREATED_AT" {
		// The collection products query uses a different sort key enum.
		sortKey = "CREATED"
	}

	vars := map[string]any{"handle": handle}
	if sortKey != "" {
		vars["sortKey"] = sortKey
		vars["reverse"] = opts.Reverse
	}

	var payload collectionProductsPayload
	err := c.send(ctx, gqlRequest{
		op:        "getCollectionProducts",
		query:     getCollectionProductsQuery,
		variables: vars,
		tags:      []string{TagCollections, TagProducts},
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Collection == nil {
		zctx.From(ctx).Info("No collection found", zap.String("handle", handle))
		return []catalog.Product{}, nil
	}
	return reshapeProducts(Flatten(payload.Collection.Products)), nil
}

// GetPages returns all static pages.
func (c *Client) GetPages(ctx context.Context) ([]catalog.Page, error) {
	var payload pagesPayload
	err := c.send(ctx, gqlRequest{
		op:      "getPages",
		query:   getPagesQuery,
		noCache: true,
	}, &payload)
	if err != nil {
		return nil, err
	}

	flat := Flatten(payload.Pages)
	pages := make([]catalog.Page, 0, len(flat))
	for i := range flat {
		if p := reshapePage(&flat[i]); p != nil {
			pages = append(pages, *p)
		}
	}
	return pages, nil
}

// GetPage returns one static page by handle, or nil when absent.
func (c *Client) GetPage(ctx context.Context, handle string) (*catalog.Page, error) {
	var payload pagePayload
	err := c.send(ctx, gqlRequest{
		op:        "getPage",
		query:     getPageQuery,
		variables: map[string]any{"handle": handle},
		noCache:   true,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return reshapePage(payload.PageByHandle), nil
}

// GetMenu returns the named navigation menu with remote URLs rewritten to
// local browse paths.
func (c *Client) GetMenu(ctx context.Context, handle string) ([]catalog.MenuItem, error) {
	var payload menuPayload
	err := c.send(ctx, gqlRequest{
		op:        "getMenu",
		query:     getMenuQuery,
		variables: map[string]any{"handle": handle},
		tags:      []string{TagCollections},
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Menu == nil {
		return []catalog.MenuItem{}, nil
	}

	items := make([]catalog.MenuItem, len(payload.Menu.Items))
	for i, item := range payload.Menu.Items {
		path := item.URL
		if idx := strings.Index(path, "://"); idx >= 0 {
			// Strip the scheme and host, keeping only the path.
			rest := path[idx+3:]
			if slash := strings.IndexByte(rest, '/'); slash >= 0 {
				path = rest[slash:]
			} else {
				path = "/"
			}
		}
		path = strings.ReplaceAll(path, "/collections", "/search")
		path = strings.ReplaceAll(path, "/pages", "")
		items[i] = catalog.MenuItem{Title: item.Title, Path: path}
	}
	return items, nil
}

// CartLineInput adds quantity units of a variant to a cart.
type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// CartLineUpdateInput sets the quantity of an existing cart line.
type CartLineUpdateInput struct {
	ID            string `json:"id"`
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// CreateCart creates a fresh remote cart and returns it with its assigned id.
func (c *Client) CreateCart(ctx context.Context) (cart.Cart, error) {
	var payload cartCreatePayload
	err := c.send(ctx, gqlRequest{
		op:      "createCart",
		query:   createCartMutation,
		noCache: true,
	}, &payload)
	if err != nil {
		return cart.Cart{}, err
	}
	return reshapeCart(payload.CartCreate.Cart), nil
}

// GetCart returns the cart for cartID, or nil when no id is supplied or the
// remote no longer knows the cart (it expires after checkout).
func (c *Client) GetCart(ctx context.Context, cartID string) (*cart.Cart, error) {
	if cartID == "" {
		return nil, nil
	}

	var payload cartPayload
	err := c.send(ctx, gqlRequest{
		op:        "getCart",
		query:     getCartQuery,
		variables: map[string]any{"cartId": cartID},
		noCache:   true,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Cart == nil {
		return nil, nil
	}
	reshaped := reshapeCart(*payload.Cart)
	return &reshaped, nil
}

// AddToCart adds lines to the remote cart and returns the confirmed cart.
func (c *Client) AddToCart(ctx context.Context, cartID string, lines []CartLineInput) (cart.Cart, error) {
	var payload cartLinesAddPayload
	err := c.send(ctx, gqlRequest{
		op:        "addToCart",
		query:     addToCartMutation,
		variables: map[string]any{"cartId": cartID, "lines": lines},
		noCache:   true,
	}, &payload)
	if err != nil {
		return cart.Cart{}, err
	}
	return reshapeCart(payload.CartLinesAdd.Cart), nil
}

// RemoveFromCart removes the given lines and returns the confirmed cart.
func (c *Client) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (cart.Cart, error) {
	var payload cartLinesRemovePayload
	err := c.send(ctx, gqlRequest{
		op:        "removeFromCart",
		query:     removeFromCartMutation,
		variables: map[string]any{"cartId": cartID, "lineIds": lineIDs},
		noCache:   true,
	}, &payload)
	if err != nil {
		return cart.Cart{}, err
	}
	return reshapeCart(payload.CartLinesRemove.Cart), nil
}

// UpdateCart sets line quantities and returns the confirmed cart.
func (c *Client) UpdateCart(ctx context.Context, cartID string, lines []CartLineUpdateInput) (cart.Cart, error) {
	var payload cartLinesUpdatePayload
	err := c.send(ctx, gqlRequest{
		op:        "editCartItems",
		query:     editCartItemsMutation,
		variables: map[string]any{"cartId": cartID, "lines": lines},
		noCache:   true,
	}, &payload)
	if err != nil {
		return cart.Cart{}, err
	}
	return reshapeCart(payload.CartLinesUpdate.Cart), nil
}
