package handlers

import (
	"context"

	gateway "github.com/nimasrn/ppob-gateway/internal/gateways"
	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/internal/services"
	xhttp "github.com/nimasrn/ppob-gateway/pkg/http"
)

type BillCheckService interface {
	Check(ctx context.Context, p model.BillCheckRequest) (*model.BillCheckResult, error)
}

type BillCheckHandler struct {
	svc BillCheckService
}

func RegisterBillCheckRoutes(e *xhttp.Group, h *BillCheckHandler) {
	e.POST("/cek-tagihan-pln", h.CheckPLNBill)
}

func NewBillCheckHandler(svc BillCheckService) *BillCheckHandler {
	return &BillCheckHandler{svc: svc}
}

type billCheckData struct {
	*model.BillCheckResult
	Details []model.BillDetail `json:"details"`
}

type billCheckSuccess struct {
	Status  string        `json:"status"`
	Success bool          `json:"success"`
	Source  string        `json:"source"`
	Data    billCheckData `json:"data"`
}

// billCheckFailure keeps the upstream's boolean status next to success.
type billCheckFailure struct {
	Status  bool   `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func (h *BillCheckHandler) CheckPLNBill(ctx *xhttp.RequestCtx) {
	var req model.BillCheckRequest
	if err := readJSON(ctx, &req); err != nil {
		writeJSON(ctx, xhttp.StatusBadRequest, billCheckFailure{Message: "invalid JSON: " + err.Error()})
		return
	}

	res, err := h.svc.Check(ctx, req)
	if err == nil {
		details := res.Details()
		if details == nil {
			details = []model.BillDetail{}
		}
		writeJSON(ctx, xhttp.StatusOK, billCheckSuccess{
			Status:  "SUCCESS",
			Success: true,
			Source:  res.Source,
			Data:    billCheckData{BillCheckResult: res, Details: details},
		})
		return
	}

	if model.IsValidationError(err) {
		writeJSON(ctx, xhttp.StatusBadRequest, billCheckFailure{Message: err.Error()})
		return
	}
	if rej, ok := gateway.IsRejected(err); ok {
		writeJSON(ctx, xhttp.StatusOK, billCheckFailure{Message: rej.Message})
		return
	}

	status, msg := services.ClassifyCheckError(err)
	resp := billCheckFailure{Message: msg}
	if exposeErrors {
		resp.Error = err.Error()
	}
	writeServerErrorBody(ctx, status, resp, err)
}

func writeServerErrorBody(ctx *xhttp.RequestCtx, status int, body any, err error) {
	logErr(ctx, status, err)
	writeJSON(ctx, status, body)
}
