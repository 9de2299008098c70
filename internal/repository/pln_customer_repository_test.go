package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPLNCustomerRepository_CRUD(t *testing.T) {
	tdb := setupTestDB(t)
	repo := NewPLNCustomerRepository(tdb.DB)
	ctx := context.Background()

	customer := model.PLNCustomerCreateRequest{CustomerNumber: "532100001111", CustomerName: "BUDI"}.ToCustomer()
	customer.Bills = append(customer.Bills, model.PLNBill{Period: "SEP 2026", Amount: 120000})

	created, err := repo.Create(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTariffPower, created.TariffPower)
	assert.False(t, created.CreatedAt.IsZero())

	t.Run("duplicate number", func(t *testing.T) {
		_, err := repo.Create(ctx, model.PLNCustomerCreateRequest{CustomerNumber: "532100001111", CustomerName: "X"}.ToCustomer())
		assert.ErrorIs(t, err, model.ErrDuplicate)
	})

	t.Run("get decodes embedded bills", func(t *testing.T) {
		got, err := repo.Get(ctx, "532100001111")
		require.NoError(t, err)
		require.Len(t, got.Bills, 1)
		assert.Equal(t, model.PLNBill{Period: "SEP 2026", Amount: 120000}, got.Bills[0])
	})

	t.Run("update rewrites bills", func(t *testing.T) {
		got, err := repo.Get(ctx, "532100001111")
		require.NoError(t, err)
		got.Bills[0].IsPaid = true
		got.Bills = append(got.Bills, model.PLNBill{Period: "OKT 2026", Amount: 130000})
		got.AdminFee = 3000

		updated, err := repo.Update(ctx, got)
		require.NoError(t, err)
		require.Len(t, updated.Bills, 2)
		assert.True(t, updated.Bills[0].IsPaid)
		assert.False(t, updated.Bills[1].IsPaid)
		assert.Equal(t, int64(3000), updated.AdminFee)
	})

	t.Run("update unknown", func(t *testing.T) {
		_, err := repo.Update(ctx, &model.PLNCustomer{CustomerNumber: "nope"})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := repo.Get(ctx, "nope")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, "nope"), model.ErrNotFound)
		require.NoError(t, repo.Delete(ctx, "532100001111"))

		var n int64
		require.NoError(t, tdb.rawDB.Model(&PLNCustomerEntity{}).Count(&n).Error)
		assert.Zero(t, n)
	})
}

func TestPLNCustomerRepository_ListNewestFirst(t *testing.T) {
	repo := NewPLNCustomerRepository(setupTestDB(t).DB)
	ctx := context.Background()

	base := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	for i, number := range []string{"1001", "1002", "1003"} {
		c := model.PLNCustomerCreateRequest{CustomerNumber: number, CustomerName: "C" + number}.ToCustomer()
		c.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "1003", items[0].CustomerNumber)
	assert.Equal(t, "1001", items[2].CustomerNumber)
	assert.NotNil(t, items[0].Bills)
}
