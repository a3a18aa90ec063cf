// Package cart defines the cart value types and the pure reducer that
// predicts the effect of user actions before the remote service confirms
// them. Derived totals are always the fold of the current lines; they are
// never settable independently.
package cart

import (
	"github.com/MohannadDev/protoshop-dev/internal/domain/catalog"
	"github.com/MohannadDev/protoshop-dev/internal/domain/money"
)

// ProductSummary is the slice of product data a cart line needs to render.
type ProductSummary struct {
	ID            string        `json:"id"`
	Handle        string        `json:"handle"`
	Title         string        `json:"title"`
	FeaturedImage catalog.Image `json:"featuredImage"`
}

// Merchandise identifies the purchasable configuration behind a line:
// the variant plus a summary of its parent product.
type Merchandise struct {
	ID              string                   `json:"id"`
	Title           string                   `json:"title"`
	SelectedOptions []catalog.SelectedOption `json:"selectedOptions"`
	Product         ProductSummary           `json:"product"`
}

// LineCost holds the recorded total for a line at its last recompute.
type LineCost struct {
	TotalAmount money.Money `json:"totalAmount"`
}

// Line is one cart entry. Quantity is positive while the line exists; a line
// that would reach quantity zero is removed, never retained.
type Line struct {
	// ID is the remote line identifier. Empty for lines that only exist as
	// local predictions.
	ID          string      `json:"id,omitempty"`
	Quantity    int         `json:"quantity"`
	Cost        LineCost    `json:"cost"`
	Merchandise Merchandise `json:"merchandise"`
}

// Cost holds the cart-level totals, each tracked independently.
type Cost struct {
	SubtotalAmount money.Money `json:"subtotalAmount"`
	TotalAmount    money.Money `json:"totalAmount"`
	TotalTaxAmount money.Money `json:"totalTaxAmount"`
}

// Cart is the full cart value. ID is empty until the first server round-trip
// assigns one. Line order is lifecycle order and carries no meaning.
type Cart struct {
	ID            string `json:"id,omitempty"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	Lines         []Line `json:"lines"`
	Cost          Cost   `json:"cost"`
}

// NewEmpty returns a fresh empty cart with zero totals and no checkout URL.
func NewEmpty() Cart {
	zero := money.Zero(money.DefaultCurrency)
	return Cart{
		Cost: Cost{
			SubtotalAmount: zero,
			TotalAmount:    zero,
			TotalTaxAmount: zero,
		},
	}
}

// FindLine returns the line matching the merchandise id, or nil.
func (c *Cart) FindLine(merchandiseID string) *Line {
	for i := range c.Lines {
		if c.Lines[i].Merchandise.ID == merchandiseID {
			return &c.Lines[i]
		}
	}
	return nil
}
