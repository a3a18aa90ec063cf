package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohannadDev/protoshop-dev/internal/domain/catalog"
	"github.com/MohannadDev/protoshop-dev/internal/domain/money"
)

func newTestVariant(id, amount string) catalog.ProductVariant {
	return catalog.ProductVariant{
		ID:               id,
		Title:            "Default",
		AvailableForSale: true,
		SelectedOptions:  []catalog.SelectedOption{{Name: "Size", Value: "M"}},
		Price:            money.FromString(amount, "USD"),
	}
}

func newTestSummary(handle string) ProductSummary {
	return ProductSummary{
		ID:     "prod-" + handle,
		Handle: handle,
		Title:  "Product " + handle,
	}
}

// requireInvariants checks the fold invariants that must hold after every
// action: totalQuantity is the sum of line quantities, and the cart total is
// the sum of line totals.
func requireInvariants(t *testing.T, c Cart) {
	t.Helper()

	quantity := 0
	total := decimal.Zero
	for _, line := range c.Lines {
		require.Positive(t, line.Quantity, "no line may exist at quantity <= 0")
		quantity += line.Quantity
		total = total.Add(line.Cost.TotalAmount.Amount)
	}
	assert.Equal(t, quantity, c.TotalQuantity)
	assert.True(t, total.Equal(c.Cost.TotalAmount.Amount),
		"cart total %s != fold of line totals %s", c.Cost.TotalAmount.Amount, total)
	assert.True(t, c.Cost.SubtotalAmount.Amount.Equal(c.Cost.TotalAmount.Amount))
}

func TestApply_AddItemToEmptyCart(t *testing.T) {
	got := Apply(nil, AddItemAction{
		Variant: newTestVariant("v1", "10.00"),
		Product: newTestSummary("blue-hat"),
	})

	require.Len(t, got.Lines, 1)
	assert.Equal(t, 1, got.Lines[0].Quantity)
	assert.Equal(t, "v1", got.Lines[0].Merchandise.ID)
	assert.Equal(t, "blue-hat", got.Lines[0].Merchandise.Product.Handle)
	assert.True(t, got.Cost.TotalAmount.Amount.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, "USD", got.Cost.TotalAmount.CurrencyCode)
	assert.Equal(t, 1, got.TotalQuantity)
	requireInvariants(t, got)
}

func TestApply_AddItemPreservesRecordedUnitPrice(t *testing.T) {
	// Line recorded at qty 2 for a $20 total. The catalog price has since
	// changed to $99, but the increment must re-derive $10 from the line.
	base := NewEmpty()
	base = Apply(&base, AddItemAction{Variant: newTestVariant("v1", "10.00"), Product: newTestSummary("p")})
	base = Apply(&base, AddItemAction{Variant: newTestVariant("v1", "10.00"), Product: newTestSummary("p")})
	require.Equal(t, 2, base.TotalQuantity)

	got := Apply(&base, AddItemAction{Variant: newTestVariant("v1", "99.00"), Product: newTestSummary("p")})

	require.Len(t, got.Lines, 1)
	assert.Equal(t, 3, got.Lines[0].Quantity)
	assert.True(t, got.Cost.TotalAmount.Amount.Equal(decimal.RequireFromString("30.00")),
		"want 30.00, got %s", got.Cost.TotalAmount.Amount)
	requireInvariants(t, got)
}

func TestApply_AddDistinctVariants(t *testing.T) {
	c := Apply(nil, AddItemAction{Variant: newTestVariant("v1", "10.00"), Product: newTestSummary("a")})
	c = Apply(&c, AddItemAction{Variant: newTestVariant("v2", "5.50"), Product: newTestSummary("b")})

	require.Len(t, c.Lines, 2)
	assert.Equal(t, 2, c.TotalQuantity)
	assert.True(t, c.Cost.TotalAmount.Amount.Equal(decimal.RequireFromString("15.50")))
	requireInvariants(t, c)
}

func TestApply_UpdatePlusAndMinus(t *testing.T) {
	c := Apply(nil, AddItemAction{Variant: newTestVariant("v1", "10.00"), Product: newTestSummary("p")})

	c = Apply(&c, UpdateItemAction{MerchandiseID: "v1", UpdateType: UpdatePlus})
	assert.Equal(t, 2, c.TotalQuantity)
	assert.True(t, c.Cost.TotalAmount.Amount.Equal(decimal.RequireFromString("20.00")))
	requireInvariants(t, c)

	c = Apply(&c, UpdateItemAction{MerchandiseID: "v1", UpdateType: UpdateMinus})
	assert.Equal(t, 1, c.TotalQuantity)
	assert.True(t, c.Cost.TotalAmount.Amount.Equal(decimal.RequireFromString("10.00")))
	requireInvariants(t, c)
}

func TestApply_MinusAtQuantityOneRemovesLine(t *testing.T) {
	c := Apply(nil, AddItemAction{Variant: newTestVariant("v1", "10.00"), Product: newTestSummary("p")})

	got := Apply(&c, UpdateItemAction{MerchandiseID: "v1", UpdateType: UpdateMinus})

	assert.Empty(t, got.Lines, "a quantity-0 line must be removed, not retained")
	assert.Equal(t, 0, got.TotalQuantity)
	assert.True(t, got.Cost.TotalAmount.Amount.IsZero())
	requireInvariants(t, got)
}

func TestApply_DeleteIsIdempotent(t *testing.T) {
	c := Apply(nil, AddItemAction{Variant: newTestVariant("v1", "10.00"), Product: newTestSummary("p")})
	c = Apply(&c, AddItemAction{Variant: newTestVariant("v2", "4.00"), Product: newTestSummary("q")})

	once := Apply(&c, UpdateItemAction{MerchandiseID: "v1", UpdateType: UpdateDelete})
	twice := Apply(&once, UpdateItemAction{MerchandiseID: "v1", UpdateType: UpdateDelete})

	assert.Equal(t, once, twice)
	require.Len(t, twice.Lines, 1)
	assert.Equal(t, "v2", twice.Lines[0].Merchandise.ID)
	requireInvariants(t, twice)
}

func TestApply_UpdateUnknownMerchandiseIsNoop(t *testing.T) {
	c := Apply(nil, AddItemAction{Variant: newTestVariant("v1", "10.00"), Product: newTestSummary("p")})

	for _, ut := range []UpdateType{UpdatePlus, UpdateMinus, UpdateDelete} {
		got := Apply(&c, UpdateItemAction{MerchandiseID: "missing", UpdateType: ut})
		assert.Equal(t, c.Lines, got.Lines, "update %q on unknown id must not materialize a line", ut)
		requireInvariants(t, got)
	}
}

func TestApply_UpdateScalesRecordedLineTotal(t *testing.T) {
	// A line holding a discounted total of $9 for qty 3 ($3/unit). Minus must
	// scale from the recorded total, not any catalog price.
	c := NewEmpty()
	c.Lines = []Line{{
		Quantity:    3,
		Cost:        LineCost{TotalAmount: money.FromString("9.00", "EUR")},
		Merchandise: Merchandise{ID: "v1"},
	}}
	c.TotalQuantity = 3
	c.Cost.TotalAmount = money.FromString("9.00", "EUR")
	c.Cost.SubtotalAmount = c.Cost.TotalAmount

	got := Apply(&c, UpdateItemAction{MerchandiseID: "v1", UpdateType: UpdateMinus})

	require.Len(t, got.Lines, 1)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.True(t, got.Lines[0].Cost.TotalAmount.Amount.Equal(decimal.RequireFromString("6")),
		"want 6, got %s", got.Lines[0].Cost.TotalAmount.Amount)
	assert.Equal(t, "EUR", got.Cost.TotalAmount.CurrencyCode)
	requireInvariants(t, got)
}

func TestApply_EmptiedCartResetsToDefaultCurrency(t *testing.T) {
	c := Apply(nil, AddItemAction{Variant: newTestVariant("v1", "10.00"), Product: newTestSummary("p")})
	c.Lines[0].Cost.TotalAmount.CurrencyCode = "GBP"
	c.Cost.TotalAmount.CurrencyCode = "GBP"

	got := Apply(&c, UpdateItemAction{MerchandiseID: "v1", UpdateType: UpdateDelete})

	assert.Empty(t, got.Lines)
	assert.True(t, got.Cost.TotalAmount.IsZero())
	assert.Equal(t, money.DefaultCurrency, got.Cost.TotalAmount.CurrencyCode,
		"an emptied cart carries the default currency, not the last line's")
}

func TestApply_NilActionReturnsInputUnchanged(t *testing.T) {
	c := Apply(nil, AddItemAction{Variant: newTestVariant("v1", "10.00"), Product: newTestSummary("p")})

	got := Apply(&c, nil)

	assert.Equal(t, c, got)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	c := Apply(nil, AddItemAction{Variant: newTestVariant("v1", "10.00"), Product: newTestSummary("p")})
	before := c.Lines[0].Quantity

	_ = Apply(&c, UpdateItemAction{MerchandiseID: "v1", UpdateType: UpdatePlus})

	assert.Equal(t, before, c.Lines[0].Quantity)
	assert.Equal(t, 1, c.TotalQuantity)
}

func TestApply_RandomSequenceHoldsInvariants(t *testing.T) {
	variants := []catalog.ProductVariant{
		newTestVariant("v1", "10.00"),
		newTestVariant("v2", "3.25"),
		newTestVariant("v3", "0.99"),
	}
	actions := []Action{
		AddItemAction{Variant: variants[0], Product: newTestSummary("a")},
		AddItemAction{Variant: variants[1], Product: newTestSummary("b")},
		UpdateItemAction{MerchandiseID: "v1", UpdateType: UpdatePlus},
		AddItemAction{Variant: variants[2], Product: newTestSummary("c")},
		UpdateItemAction{MerchandiseID: "v2", UpdateType: UpdateMinus},
		UpdateItemAction{MerchandiseID: "v3", UpdateType: UpdateDelete},
		UpdateItemAction{MerchandiseID: "v1", UpdateType: UpdateMinus},
		AddItemAction{Variant: variants[0], Product: newTestSummary("a")},
		UpdateItemAction{MerchandiseID: "nope", UpdateType: UpdatePlus},
	}

	c := NewEmpty()
	for _, action := range actions {
		c = Apply(&c, action)
		requireInvariants(t, c)
	}
}
