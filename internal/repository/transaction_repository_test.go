package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransaction(id, number, name string, status model.TransactionStatus, amount int64, at time.Time) *model.Transaction {
	return &model.Transaction{
		ID:             id,
		CustomerNumber: number,
		CustomerName:   name,
		Type:           model.TransactionTypePLN,
		Amount:         amount,
		Status:         status,
		Date:           model.FormatDisplayDate(at, nil),
		CreatedAt:      at,
	}
}

func TestTransactionRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	t.Run("create transaction", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)
		created, err := repo.Create(ctx, newTransaction("TRX001", "5300", "BUDI", model.TransactionStatusSuccess, 150000, now))
		require.NoError(t, err)
		assert.Equal(t, "TRX001", created.ID)
		assert.Equal(t, model.TransactionTypePLN, created.Type)
		assert.Equal(t, int64(150000), created.Amount)
		assert.True(t, now.Equal(created.CreatedAt))
	})

	t.Run("duplicate display id", func(t *testing.T) {
		_, err := repo.Create(ctx, newTransaction("TRX001", "5301", "SITI", model.TransactionStatusSuccess, 1000, time.Now()))
		assert.ErrorIs(t, err, model.ErrDuplicate)
	})

	t.Run("count", func(t *testing.T) {
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestTransactionRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	base := time.Date(2026, time.October, 1, 10, 0, 0, 0, time.UTC)
	fixtures := []*model.Transaction{
		newTransaction("TRX001", "532100001111", "Budi Santoso", model.TransactionStatusSuccess, 100000, base),
		newTransaction("TRX002", "532100002222", "Siti Aminah", model.TransactionStatusPending, 50000, base.Add(time.Hour)),
		newTransaction("TRX003", "880011112222", "Agus", model.TransactionStatusFailed, 75000, base.Add(2*time.Hour)),
	}
	for _, f := range fixtures {
		_, err := repo.Create(ctx, f)
		require.NoError(t, err)
	}

	t.Run("newest first", func(t *testing.T) {
		items, err := repo.List(ctx, model.TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "TRX003", items[0].ID)
		assert.Equal(t, "TRX002", items[1].ID)
		assert.Equal(t, "TRX001", items[2].ID)
	})

	t.Run("search by name ignores case", func(t *testing.T) {
		items, err := repo.List(ctx, model.TransactionFilter{Query: "siti"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "TRX002", items[0].ID)
	})

	t.Run("search by number substring", func(t *testing.T) {
		items, err := repo.List(ctx, model.TransactionFilter{Query: "5321000"})
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("search by display id", func(t *testing.T) {
		items, err := repo.List(ctx, model.TransactionFilter{Query: "trx003"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Agus", items[0].CustomerName)
	})

	t.Run("no match", func(t *testing.T) {
		items, err := repo.List(ctx, model.TransactionFilter{Query: "nobody"})
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestTransactionRepository_Delete(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newTransaction("TRX001", "5300", "BUDI", model.TransactionStatusSuccess, 1000, time.Now()))
	require.NoError(t, err)

	t.Run("missing id leaves collection unchanged", func(t *testing.T) {
		err := repo.Delete(ctx, "TRX999")
		assert.ErrorIs(t, err, model.ErrNotFound)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("existing id", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "TRX001"))

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestTransactionRepository_MaxDisplayNumber(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	n, err := repo.MaxDisplayNumber(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, id := range []string{"TRX999", "TRX1000", "TRX042"} {
		_, err := repo.Create(ctx, newTransaction(id, "5300", "BUDI", model.TransactionStatusSuccess, 1000, time.Now()))
		require.NoError(t, err)
	}

	n, err = repo.MaxDisplayNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), n)
}
