package services

import (
	"context"
	"testing"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func returnUpdated(_ context.Context, c *model.PLNCustomer) *model.PLNCustomer { return c }

func sampleCustomer() *model.PLNCustomer {
	return &model.PLNCustomer{
		CustomerNumber: "530000000001",
		CustomerName:   "SITI",
		TariffPower:    model.DefaultTariffPower,
		StandMeter:     model.DefaultStandMeter,
		AdminFee:       model.DefaultAdminFee,
		Bills: []model.PLNBill{
			{Period: "SEP 2026", Amount: 120000, IsPaid: true},
			{Period: "OKT 2026", Amount: 98000},
		},
	}
}

func TestPLNCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPLNCustomerRepository)
	repo.On("Create", ctx, mock.MatchedBy(func(c *model.PLNCustomer) bool {
		return c.TariffPower == model.DefaultTariffPower && c.AdminFee == model.DefaultAdminFee
	})).Return(sampleCustomer(), nil)

	svc := NewPLNCustomerService(repo)
	_, err := svc.Create(ctx, model.PLNCustomerCreateRequest{CustomerNumber: "530000000001", CustomerName: "SITI"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, model.PLNCustomerCreateRequest{CustomerNumber: "530000000001"})
	assert.EqualError(t, err, "Customer number and name are required")
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestPLNCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPLNCustomerRepository)
	repo.On("Get", ctx, "530000000001").Return(sampleCustomer(), nil)
	repo.On("Update", ctx, mock.Anything).Return(returnUpdated, nil)

	fee := int64(5000)
	updated, err := NewPLNCustomerService(repo).Update(ctx, "530000000001", model.PLNCustomerUpdate{AdminFee: &fee})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), updated.AdminFee)
	assert.Equal(t, "SITI", updated.CustomerName)
	assert.Len(t, updated.Bills, 2)
}

func TestPLNCustomerService_AddBill(t *testing.T) {
	ctx := context.Background()

	t.Run("appends unpaid", func(t *testing.T) {
		repo := new(MockPLNCustomerRepository)
		repo.On("Get", ctx, "530000000001").Return(sampleCustomer(), nil)
		repo.On("Update", ctx, mock.Anything).Return(returnUpdated, nil)

		c, err := NewPLNCustomerService(repo).AddBill(ctx, "530000000001", model.AddBillRequest{Period: "NOV 2026", Amount: 101000})
		require.NoError(t, err)
		require.Len(t, c.Bills, 3)
		assert.Equal(t, model.PLNBill{Period: "NOV 2026", Amount: 101000}, c.Bills[2])
	})

	t.Run("unknown customer", func(t *testing.T) {
		repo := new(MockPLNCustomerRepository)
		repo.On("Get", ctx, "000").Return(nil, model.ErrNotFound)

		_, err := NewPLNCustomerService(repo).AddBill(ctx, "000", model.AddBillRequest{Period: "NOV 2026", Amount: 1})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("missing period", func(t *testing.T) {
		repo := new(MockPLNCustomerRepository)
		_, err := NewPLNCustomerService(repo).AddBill(ctx, "000", model.AddBillRequest{Amount: 1})
		assert.EqualError(t, err, "Period and amount are required")
	})
}

func TestPLNCustomerService_PayBill(t *testing.T) {
	ctx := context.Background()

	t.Run("pays and is idempotent", func(t *testing.T) {
		stored := sampleCustomer()
		repo := new(MockPLNCustomerRepository)
		repo.On("Get", ctx, "530000000001").Return(func(context.Context, string) *model.PLNCustomer { return stored }, nil)
		repo.On("Update", ctx, mock.Anything).Return(returnUpdated, nil).Once()

		svc := NewPLNCustomerService(repo)
		c, err := svc.PayBill(ctx, "530000000001", "1")
		require.NoError(t, err)
		assert.True(t, c.Bills[1].IsPaid)

		c, err = svc.PayBill(ctx, "530000000001", "1")
		require.NoError(t, err)
		assert.True(t, c.Bills[1].IsPaid)
		assert.Len(t, c.Bills, 2)
		repo.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("bill out of range", func(t *testing.T) {
		repo := new(MockPLNCustomerRepository)
		repo.On("Get", ctx, "530000000001").Return(sampleCustomer(), nil)

		_, err := NewPLNCustomerService(repo).PayBill(ctx, "530000000001", "7")
		assert.ErrorIs(t, err, ErrBillNotFound)
	})

	t.Run("bad index", func(t *testing.T) {
		repo := new(MockPLNCustomerRepository)
		for _, idx := range []string{"-1", "x", ""} {
			_, err := NewPLNCustomerService(repo).PayBill(ctx, "530000000001", idx)
			assert.True(t, model.IsValidationError(err), idx)
		}
		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}
