// Package overlay makes cart mutations visually instantaneous. Each session
// owns a Controller holding two cart values: the baseline (last
// server-confirmed cart) and the visible cart (baseline plus local
// predictions, derived through the pure reducer). Mutations predict first and
// reconcile with the server afterwards; server state always wins.
package overlay

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/MohannadDev/protoshop-dev/internal/domain/cart"
	"github.com/MohannadDev/protoshop-dev/internal/domain/catalog"
	"github.com/MohannadDev/protoshop-dev/internal/shopify"
)

// Gateway is the remote cart surface the controller reconciles against.
type Gateway interface {
	CreateCart(ctx context.Context) (cart.Cart, error)
	GetCart(ctx context.Context, cartID string) (*cart.Cart, error)
	AddToCart(ctx context.Context, cartID string, lines []shopify.CartLineInput) (cart.Cart, error)
	RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (cart.Cart, error)
	UpdateCart(ctx context.Context, cartID string, lines []shopify.CartLineUpdateInput) (cart.Cart, error)
}

// ErrNoSuchLine is returned when an update targets merchandise the confirmed
// cart does not hold.
var ErrNoSuchLine = errors.New("line not found in cart")

// Controller owns the cart state for one session. Only the controller
// mutates the baseline, and only after a successful remote confirmation.
type Controller struct {
	gateway Gateway
	cartID  string

	mu sync.Mutex
	// baseline is the last server-confirmed cart.
	baseline cart.Cart
	// visible is the baseline with all local predictions folded in, in the
	// order the actions were issued.
	visible cart.Cart
	// pending counts predictions whose remote confirmation has not resolved.
	// While nonzero, confirmed reads update only the baseline: replacing the
	// visible cart mid-flight would drop the newer predictions.
	pending int
	// lastErr records the most recent failed mutation. Predictions are
	// deliberately not rolled back; the next confirmed read overwrites any
	// mis-predicted state.
	lastErr error
}

// NewController builds a Controller for an existing session cart. The
// baseline is the confirmed cart loaded for the session, which may be nil
// when the session has no cart yet.
func NewController(gateway Gateway, cartID string, confirmed *cart.Cart) *Controller {
	base := cart.NewEmpty()
	if confirmed != nil {
		base = *confirmed
	}
	return &Controller{
		gateway:  gateway,
		cartID:   cartID,
		baseline: base,
		visible:  base,
	}
}

// CartID returns the session's remote cart identifier.
func (c *Controller) CartID() string {
	return c.cartID
}

// Cart returns the visible cart: the value to render right now, possibly
// including unconfirmed predictions.
func (c *Controller) Cart() cart.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Err returns and clears the most recent mutation failure, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.lastErr
	c.lastErr = nil
	return err
}

// AddCartItem predicts adding one unit of the variant and returns the
// predicted cart immediately. The matching remote mutation runs in the
// background and, on success, replaces the baseline with confirmed state.
func (c *Controller) AddCartItem(ctx context.Context, variant catalog.ProductVariant, product cart.ProductSummary) cart.Cart {
	predicted := c.predict(cart.AddItemAction{Variant: variant, Product: product})

	c.reconcile(ctx, "add item", func(ctx context.Context) error {
		_, err := c.gateway.AddToCart(ctx, c.cartID, []shopify.CartLineInput{
			{MerchandiseID: variant.ID, Quantity: 1},
		})
		return err
	})
	return predicted
}

// UpdateCartItem predicts the quantity adjustment and returns the predicted
// cart immediately, reconciling with the server in the background. The remote
// call is shaped from the confirmed baseline, because remote line ids only
// exist on confirmed lines.
func (c *Controller) UpdateCartItem(ctx context.Context, merchandiseID string, updateType cart.UpdateType) cart.Cart {
	action := cart.UpdateItemAction{MerchandiseID: merchandiseID, UpdateType: updateType}

	c.mu.Lock()
	target := c.visible.FindLine(merchandiseID)
	var quantity int
	if target != nil {
		quantity = target.Quantity
	}
	c.mu.Unlock()

	predicted := c.predict(action)

	c.reconcile(ctx, "update item", func(ctx context.Context) error {
		return c.pushUpdate(ctx, merchandiseID, updateType, quantity)
	})
	return predicted
}

// pushUpdate translates a local update action into the matching remote
// mutation against the confirmed cart.
func (c *Controller) pushUpdate(ctx context.Context, merchandiseID string, updateType cart.UpdateType, visibleQuantity int) error {
	confirmed, err := c.gateway.GetCart(ctx, c.cartID)
	if err != nil {
		return err
	}
	if confirmed == nil {
		return ErrNoSuchLine
	}

	line := confirmed.FindLine(merchandiseID)
	if line == nil {
		// The line only exists as a local prediction; adding it remotely
		// converges the server toward the visible state.
		if updateType == cart.UpdateDelete || visibleQuantity <= 0 {
			return ErrNoSuchLine
		}
		_, err := c.gateway.AddToCart(ctx, c.cartID, []shopify.CartLineInput{
			{MerchandiseID: merchandiseID, Quantity: visibleQuantity},
		})
		return err
	}

	newQuantity := line.Quantity
	switch updateType {
	case cart.UpdatePlus:
		newQuantity++
	case cart.UpdateMinus:
		newQuantity--
	case cart.UpdateDelete:
		newQuantity = 0
	}

	if newQuantity <= 0 {
		_, err := c.gateway.RemoveFromCart(ctx, c.cartID, []string{line.ID})
		return err
	}
	_, err = c.gateway.UpdateCart(ctx, c.cartID, []shopify.CartLineUpdateInput{
		{ID: line.ID, MerchandiseID: merchandiseID, Quantity: newQuantity},
	})
	return err
}

// predict applies the action to the current visible cart, so rapid
// back-to-back mutations compose instead of each starting from a stale
// baseline.
func (c *Controller) predict(action cart.Action) cart.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = cart.Apply(&c.visible, action)
	c.pending++
	return c.visible
}

// reconcile runs the remote mutation in the background, detached from the
// request's cancellation, and folds the confirmed result back in.
func (c *Controller) reconcile(ctx context.Context, op string, mutate func(context.Context) error) {
	bg := context.WithoutCancel(ctx)
	go func() {
		err := mutate(bg)
		if err == nil {
			confirmed, getErr := c.gateway.GetCart(bg, c.cartID)
			if getErr == nil && confirmed != nil {
				c.confirm(*confirmed)
				return
			}
			err = getErr
		}

		c.mu.Lock()
		c.pending--
		if err != nil {
			c.lastErr = err
		}
		c.mu.Unlock()

		if err != nil {
			zctx.From(bg).Error("Cart mutation failed; keeping prediction",
				zap.String("operation", op),
				zap.String("cart_id", c.cartID),
				zap.Error(err),
			)
		}
	}()
}

// confirm installs a server-confirmed cart as the new baseline. When no
// predictions are in flight the confirmed cart fully replaces the visible
// state; otherwise the newer predictions keep rendering until their own
// confirmations resolve.
func (c *Controller) confirm(confirmed cart.Cart) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending > 0 {
		c.pending--
	}
	c.baseline = confirmed
	if c.pending == 0 {
		c.visible = confirmed
	}
}

// Refresh replaces both carts with freshly confirmed server state. Used by
// session restore and after navigation-triggered reads.
func (c *Controller) Refresh(ctx context.Context) (cart.Cart, error) {
	confirmed, err := c.gateway.GetCart(ctx, c.cartID)
	if err != nil {
		return c.Cart(), err
	}
	if confirmed == nil {
		return c.Cart(), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseline = *confirmed
	if c.pending == 0 {
		c.visible = *confirmed
	}
	return c.visible, nil
}
