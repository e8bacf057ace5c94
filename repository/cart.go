package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-shop/apperrors"
	"go-shop/models"
)

type mongoCartRepository struct {
	collection *mongo.Collection
}

// NewCartRepository creates a Mongo-backed cart repository.
func NewCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{collection: db.Collection(cartsCollection)}
}

func (r *mongoCartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("cart for user %s: %w", userID.Hex(), apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return &cart, nil
}

func (r *mongoCartRepository) Insert(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()
	cart.CreatedAt = now
	cart.UpdatedAt = now
	if cart.Version == 0 {
		cart.Version = 1
	}

	result, err := r.collection.InsertOne(ctx, cart)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert cart: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("insert cart: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		cart.ID = id
	}
	return nil
}

func (r *mongoCartRepository) UpdateItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": cartID}, bson.M{
		"$set": bson.M{
			"items":      items,
			"updated_at": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return fmt.Errorf("update cart items: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("cart %s: %w", cartID.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

func (r *mongoCartRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func (r *mongoCartRepository) DeleteVersion(ctx context.Context, userID primitive.ObjectID, version int64) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "version": version})
	if err != nil {
		return false, fmt.Errorf("delete cart: %w", err)
	}
	return result.DeletedCount > 0, nil
}
