package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/apperrors"
	"go-shop/models"
	"go-shop/repository"
)

// RatingService maintains individual product ratings and the
// denormalized aggregate fields on the owning product. Every mutation
// is followed by a full recompute of the aggregates from the complete
// rating set; the aggregates are never adjusted incrementally.
type RatingService struct {
	ratings  repository.RatingRepository
	products repository.ProductRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

// NewRatingService creates a rating service.
func NewRatingService(ratings repository.RatingRepository, products repository.ProductRepository, users repository.UserRepository, logger *slog.Logger) *RatingService {
	return &RatingService{
		ratings:  ratings,
		products: products,
		users:    users,
		logger:   logger,
	}
}

// CreateRating stores a new rating for a (product, user) pair. The
// rating's image URL is copied from the product's current image; any
// caller-supplied image is ignored. Fails with a conflict if the pair
// already has a rating and with not-found if the product is missing.
func (s *RatingService) CreateRating(ctx context.Context, productID, userID primitive.ObjectID, score int) (*models.Rating, error) {
	if productID.IsZero() || userID.IsZero() {
		return nil, apperrors.InvalidArgument("productId and userId are required")
	}
	if score < models.MinRatingScore || score > models.MaxRatingScore {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("score must be between %d and %d", models.MinRatingScore, models.MaxRatingScore))
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", productID.Hex())
		}
		return nil, fmt.Errorf("fetch product: %w", err)
	}

	// Friendly fast path; the unique index is the real guard against
	// concurrent duplicate creates.
	if _, err := s.ratings.FindByProductAndUser(ctx, productID, userID); err == nil {
		return nil, apperrors.Conflict("you have already rated this product")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check existing rating: %w", err)
	}

	now := time.Now().UTC()
	rating := &models.Rating{
		ProductID: productID,
		UserID:    userID,
		Score:     score,
		ImageURL:  product.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ratings.Insert(ctx, rating); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Conflict("you have already rated this product")
		}
		return nil, fmt.Errorf("insert rating: %w", err)
	}

	if err := s.recomputeProductRating(ctx, productID); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "rating created",
		slog.String("product_id", productID.Hex()),
		slog.String("user_id", userID.Hex()),
		slog.Int("score", score),
	)

	return rating, nil
}

// UpdateRating replaces the score of an existing rating. A nil score
// keeps the stored one. The image URL is re-synced from the product's
// current image so the rating always tracks the product.
func (s *RatingService) UpdateRating(ctx context.Context, productID, userID primitive.ObjectID, score *int) (*models.Rating, error) {
	if score != nil && (*score < models.MinRatingScore || *score > models.MaxRatingScore) {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("score must be between %d and %d", models.MinRatingScore, models.MaxRatingScore))
	}

	rating, err := s.ratings.FindByProductAndUser(ctx, productID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("rating", productID.Hex())
		}
		return nil, fmt.Errorf("find rating: %w", err)
	}

	if score != nil {
		rating.Score = *score
	}

	// Re-sync the image from the product; a product whose image was
	// cleared or that disappeared leaves the stored URL untouched.
	if product, err := s.products.FindByID(ctx, productID); err == nil && product.Image != "" {
		rating.ImageURL = product.Image
	}

	rating.UpdatedAt = time.Now().UTC()
	if err := s.ratings.Update(ctx, rating); err != nil {
		return nil, fmt.Errorf("update rating: %w", err)
	}

	if err := s.recomputeProductRating(ctx, productID); err != nil {
		return nil, err
	}

	return rating, nil
}

// DeleteRating removes the rating for a (product, user) pair and
// recomputes the product's aggregates.
func (s *RatingService) DeleteRating(ctx context.Context, productID, userID primitive.ObjectID) error {
	if err := s.ratings.Delete(ctx, productID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("rating", productID.Hex())
		}
		return fmt.Errorf("delete rating: %w", err)
	}

	if err := s.recomputeProductRating(ctx, productID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "rating deleted",
		slog.String("product_id", productID.Hex()),
		slog.String("user_id", userID.Hex()),
	)

	return nil
}

// ListRatings returns all ratings for a product, each joined with the
// author's public profile.
func (s *RatingService) ListRatings(ctx context.Context, productID primitive.ObjectID) ([]models.RatingDetail, error) {
	ratings, err := s.ratings.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	userIDs := make([]primitive.ObjectID, 0, len(ratings))
	seen := make(map[primitive.ObjectID]struct{}, len(ratings))
	for _, rt := range ratings {
		if _, ok := seen[rt.UserID]; !ok {
			seen[rt.UserID] = struct{}{}
			userIDs = append(userIDs, rt.UserID)
		}
	}

	authors, err := s.users.FindAuthors(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve rating authors: %w", err)
	}

	details := make([]models.RatingDetail, len(ratings))
	for i, rt := range ratings {
		details[i] = models.RatingDetail{Rating: rt, User: authors[rt.UserID]}
	}
	return details, nil
}

// recomputeProductRating rebuilds the product's aggregate fields from
// the full current rating set. The overwrite is idempotent, so a retry
// after a partial failure converges to the same values.
func (s *RatingService) recomputeProductRating(ctx context.Context, productID primitive.ObjectID) error {
	ratings, err := s.ratings.ListByProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("recompute ratings: %w", err)
	}

	var sum float64
	for _, rt := range ratings {
		sum += float64(rt.Score)
	}

	average := 0.0
	if len(ratings) > 0 {
		average = sum / float64(len(ratings))
	}

	if err := s.products.UpdateRatingStats(ctx, productID, sum, average); err != nil {
		return fmt.Errorf("write rating stats: %w", err)
	}
	return nil
}
