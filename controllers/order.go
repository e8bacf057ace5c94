package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"go-shop/apperrors"
	"go-shop/httputil"
	"go-shop/models"
	"go-shop/services"
)

// OrderController handles order placement and lifecycle requests.
type OrderController struct {
	orders *services.OrderService
	logger *slog.Logger
}

func NewOrderController(orders *services.OrderService, logger *slog.Logger) *OrderController {
	return &OrderController{orders: orders, logger: logger}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateOrder places an order from the authenticated user's cart.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authUser(w, r)
	if !ok {
		return
	}

	order, err := oc.orders.PlaceOrder(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, oc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data:    order,
		Message: "order placed successfully",
	})
}

// GetMyOrders returns the authenticated user's order history.
func (oc *OrderController) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authUser(w, r)
	if !ok {
		return
	}

	orders, err := oc.orders.GetUserOrders(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, oc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}

// GetOrder returns a single order. Non-admin users can only see their
// own orders.
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, claims, ok := authUser(w, r)
	if !ok {
		return
	}

	orderID, ok := httputil.ParseObjectID(w, mux.Vars(r)["orderId"])
	if !ok {
		return
	}

	order, err := oc.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		httputil.WriteError(w, r, err, oc.logger)
		return
	}

	if order.UserID != userID && claims.Role != models.RoleAdmin {
		// Hide the order's existence from other users.
		httputil.WriteError(w, r, apperrors.NotFound("order", orderID.Hex()), oc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// CancelOrder cancels one of the authenticated user's orders.
func (oc *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authUser(w, r)
	if !ok {
		return
	}

	orderID, ok := httputil.ParseObjectID(w, mux.Vars(r)["orderId"])
	if !ok {
		return
	}

	order, err := oc.orders.CancelOrder(r.Context(), userID, orderID)
	if err != nil {
		httputil.WriteError(w, r, err, oc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data:    order,
		Message: "order cancelled",
	})
}

// UpdateOrderStatus advances an order's status. Admin only.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := httputil.ParseObjectID(w, mux.Vars(r)["orderId"])
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := oc.orders.UpdateOrderStatus(r.Context(), orderID, req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, oc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// GetAllOrders lists every order. Admin only.
func (oc *OrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := oc.orders.GetAllOrders(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, oc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}
