// Package catalog defines the flat storefront entities produced by the
// normalization layer. The remote API's paged connection shapes never appear
// here; everything is an ordered slice owned by the caller.
package catalog

import (
	"time"

	"github.com/MohannadDev/protoshop-dev/internal/domain/money"
)

// HiddenProductTag marks products that must be excluded from normal listings
// regardless of their other attributes.
const HiddenProductTag = "frontend-hidden"

// HiddenCollectionPrefix marks collections excluded from the collection list.
const HiddenCollectionPrefix = "hidden"

// SEO carries page metadata for an entity.
type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Image is a catalog image. AltText is always populated after normalization.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// SelectedOption is one name/value configuration choice on a variant,
// e.g. Size=M.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductOption is a configuration axis available on a product.
type ProductOption struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// ProductVariant identifies one purchasable configuration of a product.
type ProductVariant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	AvailableForSale bool             `json:"availableForSale"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
	Price            money.Money      `json:"price"`
}

// PriceRange holds the min and max variant prices of a product.
type PriceRange struct {
	MinVariantPrice money.Money `json:"minVariantPrice"`
	MaxVariantPrice money.Money `json:"maxVariantPrice"`
}

// Product is a normalized catalog item. Variants and images are ordered;
// the first image is the canonical one.
type Product struct {
	ID               string           `json:"id"`
	Handle           string           `json:"handle"`
	AvailableForSale bool             `json:"availableForSale"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	DescriptionHTML  string           `json:"descriptionHtml"`
	Options          []ProductOption  `json:"options"`
	PriceRange       PriceRange       `json:"priceRange"`
	Variants         []ProductVariant `json:"variants"`
	Images           []Image          `json:"images"`
	FeaturedImage    Image            `json:"featuredImage"`
	SEO              SEO              `json:"seo"`
	Tags             []string         `json:"tags"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// Collection is a handle-addressed catalog grouping. Path is the derived
// browse path for the collection.
type Collection struct {
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SEO         SEO       `json:"seo"`
	Path        string    `json:"path"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Page is a handle-addressed static document.
type Page struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	Body        string    `json:"body"`
	BodySummary string    `json:"bodySummary"`
	SEO         SEO       `json:"seo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MenuItem is a navigation entry with its remote URL rewritten to a local
// browse path.
type MenuItem struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// IsHidden reports whether the product carries the hidden marker tag.
func (p *Product) IsHidden() bool {
	for _, tag := range p.Tags {
		if tag == HiddenProductTag {
			return true
		}
	}
	return false
}
