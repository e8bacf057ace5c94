package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"go-shop/httputil"
	"go-shop/services"
)

// CartController handles shopping cart requests.
type CartController struct {
	carts  *services.CartService
	logger *slog.Logger
}

func NewCartController(carts *services.CartService, logger *slog.Logger) *CartController {
	return &CartController{carts: carts, logger: logger}
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

// AddToCart adds a product to the authenticated user's cart, creating
// the cart if needed.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authUser(w, r)
	if !ok {
		return
	}

	var req addToCartRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	productID, ok := httputil.ParseObjectID(w, req.ProductID)
	if !ok {
		return
	}

	cart, err := cc.carts.AddItem(r.Context(), userID, productID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, cc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// GetCart returns the user's cart, empty if none exists.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authUser(w, r)
	if !ok {
		return
	}

	cart, err := cc.carts.GetCart(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, cc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveFromCart deletes a product line from the user's cart.
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authUser(w, r)
	if !ok {
		return
	}

	productID, ok := httputil.ParseObjectID(w, mux.Vars(r)["productId"])
	if !ok {
		return
	}

	cart, err := cc.carts.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, cc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// ClearCart removes the user's cart entirely.
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authUser(w, r)
	if !ok {
		return
	}

	if err := cc.carts.ClearCart(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, err, cc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Message: "cart cleared"})
}
