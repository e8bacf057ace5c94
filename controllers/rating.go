package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"go-shop/apperrors"
	"go-shop/httputil"
	"go-shop/models"
	"go-shop/services"
)

// RatingController handles product rating requests.
type RatingController struct {
	ratings *services.RatingService
	logger  *slog.Logger
}

func NewRatingController(ratings *services.RatingService, logger *slog.Logger) *RatingController {
	return &RatingController{ratings: ratings, logger: logger}
}

type createRatingRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Score     int    `json:"score" validate:"required,min=1,max=5"`
}

type updateRatingRequest struct {
	Score *int `json:"score" validate:"omitempty,min=1,max=5"`
}

// CreateRating records the authenticated user's rating for a product.
func (rc *RatingController) CreateRating(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authUser(w, r)
	if !ok {
		return
	}

	var req createRatingRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	productID, ok := httputil.ParseObjectID(w, req.ProductID)
	if !ok {
		return
	}

	rating, err := rc.ratings.CreateRating(r.Context(), productID, userID, req.Score)
	if err != nil {
		httputil.WriteError(w, r, err, rc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: rating})
}

// GetProductRatings lists a product's ratings with author details.
func (rc *RatingController) GetProductRatings(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseObjectID(w, mux.Vars(r)["productId"])
	if !ok {
		return
	}

	ratings, err := rc.ratings.ListRatings(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, rc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ratings})
}

// UpdateRating changes the score of an existing rating.
func (rc *RatingController) UpdateRating(w http.ResponseWriter, r *http.Request) {
	authID, claims, ok := authUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	productID, ok := httputil.ParseObjectID(w, vars["productId"])
	if !ok {
		return
	}
	userID, ok := httputil.ParseObjectID(w, vars["userId"])
	if !ok {
		return
	}

	if userID != authID && claims.Role != models.RoleAdmin {
		httputil.WriteError(w, r, apperrors.Forbidden("cannot modify another user's rating"), rc.logger)
		return
	}

	var req updateRatingRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rating, err := rc.ratings.UpdateRating(r.Context(), productID, userID, req.Score)
	if err != nil {
		httputil.WriteError(w, r, err, rc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: rating})
}

// DeleteRating removes a rating and refreshes the product's aggregates.
func (rc *RatingController) DeleteRating(w http.ResponseWriter, r *http.Request) {
	authID, claims, ok := authUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	productID, ok := httputil.ParseObjectID(w, vars["productId"])
	if !ok {
		return
	}
	userID, ok := httputil.ParseObjectID(w, vars["userId"])
	if !ok {
		return
	}

	if userID != authID && claims.Role != models.RoleAdmin {
		httputil.WriteError(w, r, apperrors.Forbidden("cannot delete another user's rating"), rc.logger)
		return
	}

	if err := rc.ratings.DeleteRating(r.Context(), productID, userID); err != nil {
		httputil.WriteError(w, r, err, rc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Message: "rating deleted"})
}
