package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/models"
)

// ProductRepository reads and writes catalog products. The catalog
// subsystem owns products; the rating and order workflows only read
// them, except for the denormalized rating aggregates.
type ProductRepository interface {
	Insert(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByProductID(ctx context.Context, productID string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)

	// UpdateRatingStats overwrites the product's aggregate rating fields.
	// The write is an idempotent $set so a recompute can be retried.
	UpdateRatingStats(ctx context.Context, id primitive.ObjectID, total, average float64) error
}

// RatingRepository persists individual product ratings. A unique index
// on (product_id, user_id) is the authority for the one-rating-per-pair
// invariant; Insert surfaces a duplicate key as a conflict.
type RatingRepository interface {
	Insert(ctx context.Context, rating *models.Rating) error
	FindByProductAndUser(ctx context.Context, productID, userID primitive.ObjectID) (*models.Rating, error)
	Update(ctx context.Context, rating *models.Rating) error
	Delete(ctx context.Context, productID, userID primitive.ObjectID) error
	ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Rating, error)
}

// CartRepository persists per-user carts.
type CartRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Insert(ctx context.Context, cart *models.Cart) error

	// UpdateItems replaces the cart's line items and bumps its version.
	UpdateItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error

	// DeleteByUser removes the user's cart. Deleting an absent cart is
	// not an error.
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error

	// DeleteVersion removes the user's cart only if its version still
	// matches. Returns false when no document matched, meaning a
	// concurrent mutation or competing checkout got there first.
	DeleteVersion(ctx context.Context, userID primitive.ObjectID, version int64) (bool, error)
}

// OrderRepository persists orders.
type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserRepository persists accounts and resolves public author profiles
// for the rating listing.
type UserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAuthors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.RatingAuthor, error)
}
