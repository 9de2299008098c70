package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/internal/services"
	xhttp "github.com/nimasrn/ppob-gateway/pkg/http"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func setupTestContext(method, path string, body []byte, params map[string]string) *xhttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	if body != nil {
		req.SetBody(body)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	for k, v := range params {
		ctx.SetUserValue(k, v)
	}
	return ctx
}

func decodeBody(t *testing.T, ctx *xhttp.RequestCtx) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &out))
	return out
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, p model.LoginRequest) (*model.Admin, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionService) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactionService) Stats(ctx context.Context) (*model.TransactionStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransactionStats), args.Error(1)
}

func (m *MockTransactionService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBillCheckService struct {
	mock.Mock
}

func (m *MockBillCheckService) Check(ctx context.Context, p model.BillCheckRequest) (*model.BillCheckResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BillCheckResult), args.Error(1)
}

type MockPLNCustomerService struct {
	mock.Mock
}

func (m *MockPLNCustomerService) customer(args mock.Arguments) (*model.PLNCustomer, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PLNCustomer), args.Error(1)
}

func (m *MockPLNCustomerService) List(ctx context.Context) ([]*model.PLNCustomer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PLNCustomer), args.Error(1)
}

func (m *MockPLNCustomerService) Get(ctx context.Context, customerNumber string) (*model.PLNCustomer, error) {
	return m.customer(m.Called(ctx, customerNumber))
}

func (m *MockPLNCustomerService) Create(ctx context.Context, p model.PLNCustomerCreateRequest) (*model.PLNCustomer, error) {
	return m.customer(m.Called(ctx, p))
}

func (m *MockPLNCustomerService) Update(ctx context.Context, customerNumber string, p model.PLNCustomerUpdate) (*model.PLNCustomer, error) {
	return m.customer(m.Called(ctx, customerNumber, p))
}

func (m *MockPLNCustomerService) Delete(ctx context.Context, customerNumber string) error {
	return m.Called(ctx, customerNumber).Error(0)
}

func (m *MockPLNCustomerService) AddBill(ctx context.Context, customerNumber string, p model.AddBillRequest) (*model.PLNCustomer, error) {
	return m.customer(m.Called(ctx, customerNumber, p))
}

func (m *MockPLNCustomerService) PayBill(ctx context.Context, customerNumber, billIndex string) (*model.PLNCustomer, error) {
	return m.customer(m.Called(ctx, customerNumber, billIndex))
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Get(ctx context.Context) *services.HealthReport {
	return m.Called(ctx).Get(0).(*services.HealthReport)
}
