package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/apperrors"
	"go-shop/models"
	"go-shop/repository"
)

// ProductService handles catalog reads and admin product creation.
type ProductService struct {
	products repository.ProductRepository
	logger   *slog.Logger
}

func NewProductService(products repository.ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

// ListProducts returns the full catalog.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetProduct returns a single product by its document id.
func (s *ProductService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", id.Hex())
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

// GetProductByPublicID returns a product by its generated public id.
func (s *ProductService) GetProductByPublicID(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.products.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

// CreateProduct stores a new catalog entry with zeroed rating
// aggregates and a generated public id.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.Name == "" {
		return apperrors.InvalidArgument("product name is required")
	}
	if product.Price < 0 {
		return apperrors.InvalidArgument("product price cannot be negative")
	}

	product.ProductID = uuid.NewString()
	product.TotalRating = 0
	product.AverageRating = 0
	product.CreatedAt = time.Now().UTC()

	if err := s.products.Insert(ctx, product); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.Conflict("product already exists")
		}
		return fmt.Errorf("insert product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ProductID),
		slog.String("name", product.Name),
	)
	return nil
}
