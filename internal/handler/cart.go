package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/MohannadDev/protoshop-dev/internal/domain/cart"
	"github.com/MohannadDev/protoshop-dev/internal/domain/catalog"
	"github.com/MohannadDev/protoshop-dev/internal/overlay"
)

// setCartCookie persists the session's cart id. The cookie is the session
// boundary: set once on cart creation, read on every cart operation.
func setCartCookie(w http.ResponseWriter, r *http.Request, cartID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    cartID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// controllerForRequest resolves the session's overlay controller, creating a
// remote cart (and persisting its id to the session) when none exists yet.
func (h *Handler) controllerForRequest(w http.ResponseWriter, r *http.Request) (*overlay.Controller, error) {
	if cookie, err := r.Cookie(cartCookieName); err == nil && cookie.Value != "" {
		return h.registry.Get(r.Context(), cookie.Value)
	}

	ctrl, err := h.registry.Create(r.Context())
	if err != nil {
		return nil, err
	}
	setCartCookie(w, r, ctrl.CartID())
	return ctrl, nil
}

// InitCart creates a cart session if the request has none and returns the
// cart id.
func (h *Handler) InitCart(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.controllerForRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("cartId")
	e.Str(ctrl.CartID())
	e.ObjEnd()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(e.Bytes())
}

// GetCart returns the session's visible cart. A request without a session
// sees an empty cart; none is created for a read.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(cartCookieName)
	if err != nil || cookie.Value == "" {
		writeEntity(w, http.StatusOK, cart.NewEmpty())
		return
	}

	ctrl, err := h.registry.Get(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeCart(w, r, ctrl)
}

// addCartItemRequest identifies the variant to add by product handle.
type addCartItemRequest struct {
	ProductHandle string `json:"productHandle"`
	VariantID     string `json:"variantId"`
}

// AddCartItem predicts adding one unit of the variant and responds with the
// predicted cart immediately; the remote confirmation happens in the
// background.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductHandle == "" || req.VariantID == "" {
		writeMessage(w, http.StatusBadRequest, "productHandle and variantId are required")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductHandle)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if product == nil {
		writeNotFound(w, "product")
		return
	}

	var variant *catalog.ProductVariant
	for i := range product.Variants {
		if product.Variants[i].ID == req.VariantID {
			variant = &product.Variants[i]
			break
		}
	}
	if variant == nil {
		writeNotFound(w, "variant")
		return
	}

	ctrl, err := h.controllerForRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	predicted := ctrl.AddCartItem(r.Context(), *variant, cart.ProductSummary{
		ID:            product.ID,
		Handle:        product.Handle,
		Title:         product.Title,
		FeaturedImage: product.FeaturedImage,
	})
	writeEntity(w, http.StatusOK, predicted)
}

// updateCartItemRequest adjusts a line by merchandise id.
type updateCartItemRequest struct {
	MerchandiseID string `json:"merchandiseId"`
	UpdateType    string `json:"updateType"`
}

// UpdateCartItem predicts a plus/minus/delete on a line and responds with the
// predicted cart immediately.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MerchandiseID == "" {
		writeMessage(w, http.StatusBadRequest, "merchandiseId is required")
		return
	}

	updateType := cart.UpdateType(req.UpdateType)
	switch updateType {
	case cart.UpdatePlus, cart.UpdateMinus, cart.UpdateDelete:
	default:
		writeMessage(w, http.StatusBadRequest, "updateType must be plus, minus, or delete")
		return
	}

	cookie, err := r.Cookie(cartCookieName)
	if err != nil || cookie.Value == "" {
		writeMessage(w, http.StatusBadRequest, "missing cart session")
		return
	}

	ctrl, err := h.registry.Get(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}

	predicted := ctrl.UpdateCartItem(r.Context(), req.MerchandiseID, updateType)
	writeEntity(w, http.StatusOK, predicted)
}

// Checkout redirects to the remote checkout; payment is delegated entirely
// to the commerce service.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(cartCookieName)
	if err != nil || cookie.Value == "" {
		writeMessage(w, http.StatusBadRequest, "missing cart session")
		return
	}

	ctrl, err := h.registry.Get(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}

	visible := ctrl.Cart()
	if visible.CheckoutURL == "" {
		writeNotFound(w, "cart")
		return
	}
	http.Redirect(w, r, visible.CheckoutURL, http.StatusTemporaryRedirect)
}

// writeCart responds with the visible cart, surfacing any recorded mutation
// failure as a header so clients can show a short message without losing the
// optimistic state.
func (h *Handler) writeCart(w http.ResponseWriter, r *http.Request, ctrl *overlay.Controller) {
	if err := ctrl.Err(); err != nil {
		zctx.From(r.Context()).Debug("Surfacing deferred cart error", zap.Error(err))
		w.Header().Set("X-Cart-Warning", "last cart update failed and will be retried on next sync")
	}
	writeEntity(w, http.StatusOK, ctrl.Cart())
}
