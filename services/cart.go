package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/apperrors"
	"go-shop/models"
	"go-shop/repository"
)

// CartService manages per-user shopping carts. Line items are
// denormalized snapshots of the product taken at add-time; only
// quantity accumulates on repeated adds.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewCartService creates a cart service.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *slog.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// AddItem puts a product into the user's cart, creating the cart lazily
// on first add. Adding a product already in the cart increments its
// quantity instead of duplicating the line.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", productID.Hex())
		}
		return nil, fmt.Errorf("fetch product: %w", err)
	}

	item := models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  quantity,
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("load cart: %w", err)
		}

		cart = &models.Cart{
			UserID: userID,
			Items:  []models.CartItem{item},
		}
		if err := s.carts.Insert(ctx, cart); err != nil {
			return nil, fmt.Errorf("create cart: %w", err)
		}
		return cart, nil
	}

	if i := cart.FindItem(productID); i >= 0 {
		cart.Items[i].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, item)
	}

	if err := s.carts.UpdateItems(ctx, cart.ID, cart.Items); err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}
	cart.Version++

	return cart, nil
}

// GetCart returns the user's cart, or an empty cart if none exists yet.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

// RemoveItem deletes a product's line item from the user's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("cart", userID.Hex())
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	if err := s.carts.UpdateItems(ctx, cart.ID, cart.Items); err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}
	cart.Version++

	return cart, nil
}

// ClearCart destroys the user's cart. Clearing an absent cart succeeds.
func (s *CartService) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.carts.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("user_id", userID.Hex()))
	return nil
}
