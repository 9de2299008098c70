package handlers

import (
	"context"
	"strings"

	"github.com/nimasrn/ppob-gateway/internal/model"
	xhttp "github.com/nimasrn/ppob-gateway/pkg/http"
)

const messageTransactionNotFound = "Transaction not found"

type TransactionService interface {
	Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error)
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error)
	Stats(ctx context.Context) (*model.TransactionStats, error)
	Delete(ctx context.Context, id string) error
}

type TransactionHandler struct {
	svc TransactionService
}

func RegisterTransactionRoutes(e *xhttp.Group, h *TransactionHandler) {
	e.GET("/transactions", h.ListTransactions)
	e.GET("/transactions/stats", h.GetStats)
	e.POST("/transactions", h.CreateTransaction)
	e.DELETE("/transactions", h.DeleteTransaction)
	e.DELETE("/transactions/{id}", h.DeleteTransaction)
}

func NewTransactionHandler(svc TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

func (h *TransactionHandler) ListTransactions(ctx *xhttp.RequestCtx) {
	f := model.TransactionFilter{Query: strings.TrimSpace(query(ctx, "q"))}

	items, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err, messageTransactionNotFound)
		return
	}
	if items == nil {
		items = []*model.Transaction{}
	}
	writeJSON(ctx, xhttp.StatusOK, dataResponse{Success: true, Data: items})
}

func (h *TransactionHandler) GetStats(ctx *xhttp.RequestCtx) {
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		writeServiceError(ctx, err, messageTransactionNotFound)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, dataResponse{Success: true, Data: stats})
}

func (h *TransactionHandler) CreateTransaction(ctx *xhttp.RequestCtx) {
	var req model.TransactionCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeInvalidJSON(ctx, err)
		return
	}

	txn, err := h.svc.Create(ctx, req)
	if err != nil {
		writeServiceError(ctx, err, messageTransactionNotFound)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, dataResponse{Success: true, Data: txn})
}

// DeleteTransaction takes the id from the path or, for the serverless
// route, from the id query parameter.
func (h *TransactionHandler) DeleteTransaction(ctx *xhttp.RequestCtx) {
	id := param(ctx, "id")
	if id == "" {
		id = query(ctx, "id")
	}
	if id == "" {
		writeError(ctx, xhttp.StatusBadRequest, "Transaction id is required")
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		writeServiceError(ctx, err, messageTransactionNotFound)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, messageResponse{Success: true, Message: "Transaction deleted"})
}
