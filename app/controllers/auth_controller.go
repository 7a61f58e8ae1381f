package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if !bindBody(w, r, &in) {
		return
	}

	resp, err := c.service.Register(r.Context(), in)
	if errors.Is(err, services.ErrUserExists) {
		response.Error(w, http.StatusConflict, "username already taken")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("registration failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Created(w, resp)
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if !bindBody(w, r, &in) {
		return
	}

	resp, err := c.service.Login(r.Context(), in)
	if errors.Is(err, services.ErrInvalidCredentials) {
		response.Unauthorized(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("login failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, resp)
}
