package controllers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/apperrors"
	"go-shop/httputil"
	"go-shop/middleware"
	"go-shop/utils"
)

// authUser extracts the authenticated user's id and claims from the
// request context. Returns false after writing a 401 when the request
// carries no valid identity.
func authUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, *utils.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: apperrors.ErrUnauthorized.Error(),
			},
		})
		return primitive.NilObjectID, nil, false
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "invalid token subject",
			},
		})
		return primitive.NilObjectID, nil, false
	}

	return userID, claims, true
}
