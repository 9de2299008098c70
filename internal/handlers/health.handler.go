package handlers

import (
	"context"

	"github.com/nimasrn/ppob-gateway/internal/services"
	xhttp "github.com/nimasrn/ppob-gateway/pkg/http"
)

type HealthService interface {
	Get(ctx context.Context) *services.HealthReport
}

type HealthHandler struct {
	svc HealthService
}

func RegisterHealthRoutes(e *xhttp.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(svc HealthService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	writeJSON(ctx, xhttp.StatusOK, h.svc.Get(ctx))
}
