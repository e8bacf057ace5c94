package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog product. ProductID is the stable public
// identifier, distinct from the Mongo document id. TotalRating and
// AverageRating are denormalized aggregates recomputed from the full
// rating set after every rating mutation; they are never patched
// incrementally.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID     string             `bson:"product_id" json:"product_id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	TotalRating   float64            `bson:"total_rating" json:"total_rating"`
	AverageRating float64            `bson:"average_rating" json:"average_rating"`
	Availability  bool               `bson:"availability" json:"availability"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
