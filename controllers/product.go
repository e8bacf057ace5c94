package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/apperrors"
	"go-shop/httputil"
	"go-shop/models"
	"go-shop/services"
	"go-shop/utils"
)

const maxUploadBytes = 10 << 20

// ProductController handles catalog requests. Creation is admin only
// and accepts a multipart form with an optional product image.
type ProductController struct {
	products *services.ProductService
	uploader *utils.Uploader
	logger   *slog.Logger
}

func NewProductController(products *services.ProductService, uploader *utils.Uploader, logger *slog.Logger) *ProductController {
	return &ProductController{products: products, uploader: uploader, logger: logger}
}

// GetProducts lists the catalog.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := pc.products.ListProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, pc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// GetProductByID returns a single product. The path segment may be
// either the document id or the generated public product id.
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["id"]

	var (
		product *models.Product
		err     error
	)
	if objID, parseErr := primitive.ObjectIDFromHex(key); parseErr == nil {
		product, err = pc.products.GetProduct(r.Context(), objID)
	} else {
		product, err = pc.products.GetProductByPublicID(r.Context(), key)
	}
	if err != nil {
		httputil.WriteError(w, r, err, pc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct adds a catalog entry. Admin only. Form fields: name,
// description, price, availability, and an optional image file.
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidArgument("invalid multipart form"), pc.logger)
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidArgument("invalid price"), pc.logger)
		return
	}

	product := &models.Product{
		Name:         r.FormValue("name"),
		Description:  r.FormValue("description"),
		Price:        price,
		Availability: r.FormValue("availability") != "false",
	}

	if file, handler, err := r.FormFile("image"); err == nil {
		defer file.Close()

		url, err := pc.uploader.UploadImage(r.Context(), file, handler.Filename)
		if err != nil {
			pc.logger.ErrorContext(r.Context(), "image upload failed",
				slog.String("filename", handler.Filename),
				slog.String("error", err.Error()),
			)
			httputil.WriteError(w, r, apperrors.Internal(err), pc.logger)
			return
		}
		product.Image = url
	}

	if err := pc.products.CreateProduct(r.Context(), product); err != nil {
		httputil.WriteError(w, r, err, pc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}
