package services

import (
	"context"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	args := m.Called(ctx, username)
	if rf, ok := args.Get(0).(func(context.Context, string) *model.Admin); ok {
		return rf(ctx, username), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	args := m.Called(ctx, txn)
	if rf, ok := args.Get(0).(func(context.Context, *model.Transaction) *model.Transaction); ok {
		return rf(ctx, txn), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) MaxDisplayNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPLNCustomerRepository struct {
	mock.Mock
}

func (m *MockPLNCustomerRepository) List(ctx context.Context) ([]*model.PLNCustomer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PLNCustomer), args.Error(1)
}

func (m *MockPLNCustomerRepository) Get(ctx context.Context, customerNumber string) (*model.PLNCustomer, error) {
	args := m.Called(ctx, customerNumber)
	if rf, ok := args.Get(0).(func(context.Context, string) *model.PLNCustomer); ok {
		return rf(ctx, customerNumber), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PLNCustomer), args.Error(1)
}

func (m *MockPLNCustomerRepository) Create(ctx context.Context, c *model.PLNCustomer) (*model.PLNCustomer, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PLNCustomer), args.Error(1)
}

func (m *MockPLNCustomerRepository) Update(ctx context.Context, c *model.PLNCustomer) (*model.PLNCustomer, error) {
	args := m.Called(ctx, c)
	if rf, ok := args.Get(0).(func(context.Context, *model.PLNCustomer) *model.PLNCustomer); ok {
		return rf(ctx, c), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PLNCustomer), args.Error(1)
}

func (m *MockPLNCustomerRepository) Delete(ctx context.Context, customerNumber string) error {
	args := m.Called(ctx, customerNumber)
	return args.Error(0)
}

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Check(ctx context.Context, customerNumber string) (*model.BillCheckResult, error) {
	args := m.Called(ctx, customerNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BillCheckResult), args.Error(1)
}

func (m *MockSource) Name() string {
	return "mock"
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, data interface{}, metadata map[string]string) (string, error) {
	args := m.Called(ctx, data, metadata)
	return args.String(0), args.Error(1)
}
