package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating score bounds.
const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// Rating is a single user's score for a product. At most one rating
// exists per (product, user) pair; a unique index enforces this at the
// storage layer. ImageURL is always copied from the product's current
// image, never taken from the caller.
type Rating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Score     int                `bson:"score" json:"score"`
	ImageURL  string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// RatingAuthor is the public-safe projection of the rating's user.
type RatingAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RatingDetail is a rating joined with its author's public profile,
// returned by the per-product listing.
type RatingDetail struct {
	Rating
	User RatingAuthor `json:"user"`
}
