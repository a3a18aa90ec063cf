package cart

import (
	"github.com/MohannadDev/protoshop-dev/internal/domain/catalog"
	"github.com/MohannadDev/protoshop-dev/internal/domain/money"
)

// UpdateType enumerates the quantity adjustments a line supports.
type UpdateType string

const (
	UpdatePlus   UpdateType = "plus"
	UpdateMinus  UpdateType = "minus"
	UpdateDelete UpdateType = "delete"
)

// Action is a cart mutation understood by Apply. The set is sealed so that
// unknown actions cannot be constructed outside this package.
type Action interface {
	isAction()
}

// AddItemAction adds one unit of a variant to the cart.
type AddItemAction struct {
	Variant catalog.ProductVariant
	Product ProductSummary
}

// UpdateItemAction adjusts or removes the line matching MerchandiseID.
type UpdateItemAction struct {
	MerchandiseID string
	UpdateType    UpdateType
}

func (AddItemAction) isAction()    {}
func (UpdateItemAction) isAction() {}

// Apply is the pure cart reducer. It performs no I/O and never panics for
// any action value; actions it does not recognize return the input
// unchanged. The input cart is not mutated.
func Apply(current *Cart, action Action) Cart {
	c := NewEmpty()
	if current != nil {
		c = cloneCart(*current)
	}

	switch a := action.(type) {
	case AddItemAction:
		return applyAdd(c, a)
	case UpdateItemAction:
		return applyUpdate(c, a)
	default:
		return c
	}
}

func applyAdd(c Cart, a AddItemAction) Cart {
	if existing := c.FindLine(a.Variant.ID); existing != nil {
		// Re-derive the unit price from the line's recorded total rather
		// than re-reading the catalog price, so a previously applied
		// discount or rounding survives the increment.
		unit := existing.Cost.TotalAmount.DivInt(existing.Quantity)
		existing.Quantity++
		existing.Cost.TotalAmount = unit.MulInt(existing.Quantity)
	} else {
		c.Lines = append(c.Lines, Line{
			Quantity: 1,
			Cost:     LineCost{TotalAmount: a.Variant.Price},
			Merchandise: Merchandise{
				ID:              a.Variant.ID,
				Title:           a.Variant.Title,
				SelectedOptions: a.Variant.SelectedOptions,
				Product:         a.Product,
			},
		})
	}
	return recomputeTotals(c)
}

func applyUpdate(c Cart, a UpdateItemAction) Cart {
	idx := -1
	for i := range c.Lines {
		if c.Lines[i].Merchandise.ID == a.MerchandiseID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// No line materializes from nothing.
		return c
	}

	line := &c.Lines[idx]
	remove := a.UpdateType == UpdateDelete
	if !remove {
		next := line.Quantity
		switch a.UpdateType {
		case UpdatePlus:
			next++
		case UpdateMinus:
			next--
		default:
			return c
		}
		if next <= 0 {
			remove = true
		} else {
			// Scale the previous total to the new quantity so non-linear
			// pricing baked into the line is preserved.
			unit := line.Cost.TotalAmount.DivInt(line.Quantity)
			line.Quantity = next
			line.Cost.TotalAmount = unit.MulInt(next)
		}
	}
	if remove {
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	}
	return recomputeTotals(c)
}

// recomputeTotals folds the lines into the cart-level quantity and cost.
// The currency comes from the first line; an empty cart resets to the
// default currency.
func recomputeTotals(c Cart) Cart {
	currency := money.DefaultCurrency
	if len(c.Lines) > 0 {
		currency = c.Lines[0].Cost.TotalAmount.CurrencyCode
	}

	total := money.Zero(currency)
	quantity := 0
	for _, line := range c.Lines {
		quantity += line.Quantity
		total = total.Add(line.Cost.TotalAmount)
	}

	c.TotalQuantity = quantity
	c.Cost = Cost{
		SubtotalAmount: total,
		TotalAmount:    total,
		TotalTaxAmount: money.Zero(currency),
	}
	return c
}

// cloneCart deep-copies the line slice so Apply never aliases its input.
func cloneCart(c Cart) Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	c.Lines = lines
	return c
}
