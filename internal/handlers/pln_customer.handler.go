package handlers

import (
	"context"
	"errors"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/internal/services"
	xhttp "github.com/nimasrn/ppob-gateway/pkg/http"
)

const messageCustomerNotFound = "Customer not found"

type PLNCustomerService interface {
	List(ctx context.Context) ([]*model.PLNCustomer, error)
	Get(ctx context.Context, customerNumber string) (*model.PLNCustomer, error)
	Create(ctx context.Context, p model.PLNCustomerCreateRequest) (*model.PLNCustomer, error)
	Update(ctx context.Context, customerNumber string, p model.PLNCustomerUpdate) (*model.PLNCustomer, error)
	Delete(ctx context.Context, customerNumber string) error
	AddBill(ctx context.Context, customerNumber string, p model.AddBillRequest) (*model.PLNCustomer, error)
	PayBill(ctx context.Context, customerNumber, billIndex string) (*model.PLNCustomer, error)
}

type PLNCustomerHandler struct {
	svc PLNCustomerService
}

func RegisterPLNCustomerRoutes(e *xhttp.Group, h *PLNCustomerHandler) {
	e.GET("/pln-customers", h.ListCustomers)
	e.POST("/pln-customers", h.CreateCustomer)
	e.GET("/pln-customers/{customerNumber}", h.GetCustomer)
	e.PUT("/pln-customers/{customerNumber}", h.UpdateCustomer)
	e.DELETE("/pln-customers/{customerNumber}", h.DeleteCustomer)
	e.POST("/pln-customers/{customerNumber}/bills", h.AddBill)
	e.PUT("/pln-customers/{customerNumber}/bills/{billIndex}/pay", h.PayBill)
}

func NewPLNCustomerHandler(svc PLNCustomerService) *PLNCustomerHandler {
	return &PLNCustomerHandler{svc: svc}
}

func (h *PLNCustomerHandler) ListCustomers(ctx *xhttp.RequestCtx) {
	items, err := h.svc.List(ctx)
	if err != nil {
		writeServiceError(ctx, err, messageCustomerNotFound)
		return
	}
	if items == nil {
		items = []*model.PLNCustomer{}
	}
	writeJSON(ctx, xhttp.StatusOK, dataResponse{Success: true, Data: items})
}

func (h *PLNCustomerHandler) GetCustomer(ctx *xhttp.RequestCtx) {
	c, err := h.svc.Get(ctx, param(ctx, "customerNumber"))
	if err != nil {
		writeServiceError(ctx, err, messageCustomerNotFound)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, dataResponse{Success: true, Data: c})
}

func (h *PLNCustomerHandler) CreateCustomer(ctx *xhttp.RequestCtx) {
	var req model.PLNCustomerCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeInvalidJSON(ctx, err)
		return
	}

	c, err := h.svc.Create(ctx, req)
	if errors.Is(err, model.ErrDuplicate) {
		writeError(ctx, xhttp.StatusConflict, "Customer already exists")
		return
	}
	if err != nil {
		writeServiceError(ctx, err, messageCustomerNotFound)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, dataResponse{Success: true, Data: c})
}

func (h *PLNCustomerHandler) UpdateCustomer(ctx *xhttp.RequestCtx) {
	var req model.PLNCustomerUpdate
	if err := readJSON(ctx, &req); err != nil {
		writeInvalidJSON(ctx, err)
		return
	}

	c, err := h.svc.Update(ctx, param(ctx, "customerNumber"), req)
	if err != nil {
		writeServiceError(ctx, err, messageCustomerNotFound)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, dataResponse{Success: true, Data: c})
}

func (h *PLNCustomerHandler) DeleteCustomer(ctx *xhttp.RequestCtx) {
	if err := h.svc.Delete(ctx, param(ctx, "customerNumber")); err != nil {
		writeServiceError(ctx, err, messageCustomerNotFound)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, messageResponse{Success: true, Message: "Customer deleted"})
}

func (h *PLNCustomerHandler) AddBill(ctx *xhttp.RequestCtx) {
	var req model.AddBillRequest
	if err := readJSON(ctx, &req); err != nil {
		writeInvalidJSON(ctx, err)
		return
	}

	c, err := h.svc.AddBill(ctx, param(ctx, "customerNumber"), req)
	if err != nil {
		writeServiceError(ctx, err, messageCustomerNotFound)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, dataResponse{Success: true, Data: c})
}

func (h *PLNCustomerHandler) PayBill(ctx *xhttp.RequestCtx) {
	c, err := h.svc.PayBill(ctx, param(ctx, "customerNumber"), param(ctx, "billIndex"))
	if errors.Is(err, services.ErrBillNotFound) {
		writeError(ctx, xhttp.StatusNotFound, "Bill not found")
		return
	}
	if err != nil {
		writeServiceError(ctx, err, messageCustomerNotFound)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, dataResponse{Success: true, Data: c})
}
