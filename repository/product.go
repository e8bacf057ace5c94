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

type mongoProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a Mongo-backed product repository.
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{collection: db.Collection(productsCollection)}
}

func (r *mongoProductRepository) Insert(ctx context.Context, product *models.Product) error {
	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert product: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}
	return nil
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", id.Hex(), apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

func (r *mongoProductRepository) FindByProductID(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"product_id": productID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", productID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

func (r *mongoProductRepository) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *mongoProductRepository) UpdateRatingStats(ctx context.Context, id primitive.ObjectID, total, average float64) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"total_rating":   total,
			"average_rating": average,
		},
	})
	if err != nil {
		return fmt.Errorf("update rating stats: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	return nil
}
