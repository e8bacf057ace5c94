package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-shop/apperrors"
	"go-shop/models"
)

type mongoRatingRepository struct {
	collection *mongo.Collection
}

// NewRatingRepository creates a Mongo-backed rating repository.
func NewRatingRepository(db *mongo.Database) RatingRepository {
	return &mongoRatingRepository{collection: db.Collection(ratingsCollection)}
}

func (r *mongoRatingRepository) Insert(ctx context.Context, rating *models.Rating) error {
	result, err := r.collection.InsertOne(ctx, rating)
	if err != nil {
		// The unique (product_id, user_id) index is what actually
		// prevents duplicates under concurrent creates.
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert rating: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("insert rating: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		rating.ID = id
	}
	return nil
}

func (r *mongoRatingRepository) FindByProductAndUser(ctx context.Context, productID, userID primitive.ObjectID) (*models.Rating, error) {
	var rating models.Rating
	err := r.collection.FindOne(ctx, bson.M{"product_id": productID, "user_id": userID}).Decode(&rating)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("rating for product %s by user %s: %w", productID.Hex(), userID.Hex(), apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find rating: %w", err)
	}
	return &rating, nil
}

func (r *mongoRatingRepository) Update(ctx context.Context, rating *models.Rating) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": rating.ID}, bson.M{
		"$set": bson.M{
			"score":      rating.Score,
			"image_url":  rating.ImageURL,
			"updated_at": rating.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("rating %s: %w", rating.ID.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

func (r *mongoRatingRepository) Delete(ctx context.Context, productID, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"product_id": productID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("rating for product %s by user %s: %w", productID.Hex(), userID.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

func (r *mongoRatingRepository) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Rating, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"product_id": productID})
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, fmt.Errorf("decode ratings: %w", err)
	}
	return ratings, nil
}
