package controllers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/models"
	"go-shop/services"
)

func newProductHarness() (*mux.Router, *mockProductRepository) {
	products := new(mockProductRepository)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pc := NewProductController(services.NewProductService(products, logger), nil, logger)

	router := mux.NewRouter()
	router.HandleFunc("/api/products", pc.GetProducts).Methods("GET")
	router.HandleFunc("/api/products/{id}", pc.GetProductByID).Methods("GET")
	return router, products
}

func TestGetProductByDocumentID(t *testing.T) {
	router, products := newProductHarness()
	id := primitive.NewObjectID()

	products.On("FindByID", mock.Anything, id).Return(&models.Product{
		ID:   id,
		Name: "Desk",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+id.Hex(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Desk")
	products.AssertNotCalled(t, "FindByProductID", mock.Anything, mock.Anything)
}

func TestGetProductByPublicID(t *testing.T) {
	router, products := newProductHarness()

	products.On("FindByProductID", mock.Anything, "9f0c2c1e-pub").Return(&models.Product{
		ID:        primitive.NewObjectID(),
		ProductID: "9f0c2c1e-pub",
		Name:      "Lamp",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products/9f0c2c1e-pub", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lamp")
	products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetProductByPublicIDNotFound(t *testing.T) {
	router, products := newProductHarness()

	products.On("FindByProductID", mock.Anything, "missing-id").Return(nil, notFoundErrForTest())

	req := httptest.NewRequest(http.MethodGet, "/api/products/missing-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
