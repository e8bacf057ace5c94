package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/apperrors"
)

// Response is the standard JSON envelope for all endpoints.
type Response struct {
	Data    any            `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse carries a machine-readable code plus a human message.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing to do if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto the standard error envelope. Internal errors
// are logged; everything else surfaces its taxonomy code and message.
func WriteError(w http.ResponseWriter, r *http.Request, err error, l *slog.Logger) {
	status := apperrors.HTTPStatus(err)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status != http.StatusInternalServerError {
			WriteJSON(w, appErr.Status, Response{
				Error: &ErrorResponse{Code: appErr.Code, Message: appErr.Message},
			})
			return
		}
	}

	if status == http.StatusInternalServerError && l != nil {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	code := "INTERNAL_ERROR"
	message := "an internal error occurred"
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code, message = "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrConflict):
		code, message = "CONFLICT", "conflict"
	case errors.Is(err, apperrors.ErrInvalidArgument):
		code, message = "INVALID_ARGUMENT", err.Error()
	case errors.Is(err, apperrors.ErrInvalidState):
		code, message = "INVALID_STATE", err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		code, message = "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, apperrors.ErrForbidden):
		code, message = "FORBIDDEN", "forbidden"
	}

	WriteJSON(w, status, Response{Error: &ErrorResponse{Code: code, Message: message}})
}

// ParseObjectID validates a hex document id from a path or body field.
// On failure it writes a 400 response and returns false, signaling the
// handler to return early.
func ParseObjectID(w http.ResponseWriter, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(param)
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "INVALID_ARGUMENT",
				Message: "invalid id: " + param,
			},
		})
		return primitive.NilObjectID, false
	}
	return id, true
}
