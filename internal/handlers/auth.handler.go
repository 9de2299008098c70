package handlers

import (
	"context"
	"errors"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/internal/services"
	xhttp "github.com/nimasrn/ppob-gateway/pkg/http"
)

type AuthService interface {
	Login(ctx context.Context, p model.LoginRequest) (*model.Admin, error)
}

type AuthHandler struct {
	svc AuthService
}

func RegisterAuthRoutes(e *xhttp.Group, h *AuthHandler) {
	e.POST("/auth/login", h.Login)
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type adminView struct {
	Username string `json:"username"`
}

type loginResponse struct {
	Success bool      `json:"success"`
	Admin   adminView `json:"admin"`
}

func (h *AuthHandler) Login(ctx *xhttp.RequestCtx) {
	var req model.LoginRequest
	if err := readJSON(ctx, &req); err != nil {
		writeInvalidJSON(ctx, err)
		return
	}

	admin, err := h.svc.Login(ctx, req)
	if errors.Is(err, services.ErrInvalidCredentials) {
		writeError(ctx, xhttp.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeServiceError(ctx, err, "Invalid credentials")
		return
	}

	writeJSON(ctx, xhttp.StatusOK, loginResponse{Success: true, Admin: adminView{Username: admin.Username}})
}
