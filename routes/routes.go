package routes

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-shop/controllers"
	"go-shop/httputil"
	"go-shop/middleware"
)

// Controllers bundles the handler set wired into the router.
type Controllers struct {
	Users    *controllers.UserController
	Products *controllers.ProductController
	Carts    *controllers.CartController
	Orders   *controllers.OrderController
	Ratings  *controllers.RatingController
}

// RegisterRoutes sets up all application routes and middleware.
func RegisterRoutes(router *mux.Router, c Controllers, jwtSecret []byte, logger *slog.Logger) {
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS)
	router.Use(middleware.Metrics)

	authn := middleware.Auth(jwtSecret, logger)
	adminOnly := middleware.AdminOnly(logger)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Message: "ok"})
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// User routes
	user := router.PathPrefix("/api/user").Subrouter()
	user.HandleFunc("/register", c.Users.Register).Methods("POST")
	user.HandleFunc("/login", c.Users.Login).Methods("POST")

	userProtected := router.PathPrefix("/api/user").Subrouter()
	userProtected.Use(authn)
	userProtected.HandleFunc("/profile", c.Users.GetProfile).Methods("GET")

	// Product routes
	router.HandleFunc("/api/products", c.Products.GetProducts).Methods("GET")
	router.HandleFunc("/api/products/{id}", c.Products.GetProductByID).Methods("GET")

	productAdmin := router.PathPrefix("/api/products").Subrouter()
	productAdmin.Use(authn, adminOnly)
	productAdmin.HandleFunc("", c.Products.CreateProduct).Methods("POST")

	// Rating routes
	router.HandleFunc("/api/ratings/{productId}", c.Ratings.GetProductRatings).Methods("GET")

	ratings := router.PathPrefix("/api/ratings").Subrouter()
	ratings.Use(authn)
	ratings.HandleFunc("/rating", c.Ratings.CreateRating).Methods("POST")
	ratings.HandleFunc("/{productId}/{userId}", c.Ratings.UpdateRating).Methods("PUT")
	ratings.HandleFunc("/{productId}/{userId}", c.Ratings.DeleteRating).Methods("DELETE")

	// Cart routes
	cart := router.PathPrefix("/api/cart").Subrouter()
	cart.Use(authn)
	cart.HandleFunc("/add", c.Carts.AddToCart).Methods("POST")
	cart.HandleFunc("/all", c.Carts.GetCart).Methods("GET")
	cart.HandleFunc("/{productId}", c.Carts.RemoveFromCart).Methods("DELETE")
	cart.HandleFunc("", c.Carts.ClearCart).Methods("DELETE")

	// Order routes
	orders := router.PathPrefix("/api/orders").Subrouter()
	orders.Use(authn)
	orders.HandleFunc("", c.Orders.CreateOrder).Methods("POST")
	orders.HandleFunc("/my-orders", c.Orders.GetMyOrders).Methods("GET")
	orders.HandleFunc("/{orderId}", c.Orders.GetOrder).Methods("GET")
	orders.HandleFunc("/{orderId}", c.Orders.CancelOrder).Methods("DELETE")

	orderAdmin := router.PathPrefix("/api/orders").Subrouter()
	orderAdmin.Use(authn, adminOnly)
	orderAdmin.HandleFunc("/{orderId}/status", c.Orders.UpdateOrderStatus).Methods("PATCH")
	orderAdmin.HandleFunc("", c.Orders.GetAllOrders).Methods("GET")
}
