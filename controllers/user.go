package controllers

import (
	"log/slog"
	"net/http"

	"go-shop/httputil"
	"go-shop/services"
)

// UserController handles registration, login, and profile requests.
type UserController struct {
	users  *services.UserService
	logger *slog.Logger
}

func NewUserController(users *services.UserService, logger *slog.Logger) *UserController {
	return &UserController{users: users, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new user account.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := uc.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, uc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data:    user,
		Message: "user registered successfully",
	})
}

// Login authenticates a user and returns a JWT.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	token, user, err := uc.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, uc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{
			"token": token,
			"user":  user,
		},
	})
}

// GetProfile returns the authenticated user's account.
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authUser(w, r)
	if !ok {
		return
	}

	user, err := uc.users.GetProfile(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, uc.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}
