package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)


func TestTransactionService_Create(t *testing.T) {
	ctx := context.Background()
	wib := time.FixedZone("WIB", 7*60*60)
	fixed := time.Date(2026, time.October, 17, 3, 4, 5, 0, time.UTC)

	repo := new(MockTransactionRepository)
	repo.On("Count", ctx).Return(int64(0), nil).Once()
	repo.On("Count", ctx).Return(int64(1), nil).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*model.Transaction")).
		Return(func(_ context.Context, txn *model.Transaction) *model.Transaction { return txn }, nil)

	svc := NewTransactionService(repo, wib)
	svc.now = func() time.Time { return fixed }

	req := model.TransactionCreateRequest{
		CustomerNumber: "530000000001",
		CustomerName:   "BUDI",
		Type:           model.TransactionTypePLN,
		Amount:         152500,
	}

	first, err := svc.Create(ctx, req)
	require.NoError(t, err)
	second, err := svc.Create(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "TRX001", first.ID)
	assert.Equal(t, "TRX002", second.ID)
	assert.Equal(t, model.TransactionStatusSuccess, first.Status)
	assert.Equal(t, "17/10/2026 10.04.05", first.Date)
	assert.Equal(t, fixed, first.CreatedAt)
}

func TestTransactionService_CreateSkipsTakenID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTransactionRepository)
	repo.On("Count", ctx).Return(int64(1), nil)
	repo.On("MaxDisplayNumber", ctx).Return(int64(2), nil).Once()
	repo.On("Create", ctx, mock.MatchedBy(func(txn *model.Transaction) bool { return txn.ID == "TRX002" })).
		Return(nil, model.ErrDuplicate).Once()
	repo.On("Create", ctx, mock.MatchedBy(func(txn *model.Transaction) bool { return txn.ID == "TRX003" })).
		Return(func(_ context.Context, txn *model.Transaction) *model.Transaction { return txn }, nil).Once()

	created, err := NewTransactionService(repo, time.UTC).Create(ctx, model.TransactionCreateRequest{
		CustomerNumber: "1", CustomerName: "A", Type: model.TransactionTypeBPJS, Amount: 1, Status: model.TransactionStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "TRX003", created.ID)
	assert.Equal(t, model.TransactionStatusPending, created.Status)
	repo.AssertExpectations(t)
}

func TestTransactionService_CreateAfterDeletingOldest(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTransactionRepository)
	// TRX001..TRX006 deleted out of twelve
	repo.On("Count", ctx).Return(int64(6), nil)
	repo.On("Create", ctx, mock.MatchedBy(func(txn *model.Transaction) bool { return txn.ID == "TRX007" })).
		Return(nil, model.ErrDuplicate).Once()
	repo.On("MaxDisplayNumber", ctx).Return(int64(12), nil).Once()
	repo.On("Create", ctx, mock.MatchedBy(func(txn *model.Transaction) bool { return txn.ID == "TRX013" })).
		Return(func(_ context.Context, txn *model.Transaction) *model.Transaction { return txn }, nil).Once()

	created, err := NewTransactionService(repo, time.UTC).Create(ctx, model.TransactionCreateRequest{
		CustomerNumber: "1", CustomerName: "A", Type: model.TransactionTypePLN, Amount: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "TRX013", created.ID)
	repo.AssertExpectations(t)
}

func TestTransactionService_CreateGivesUp(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTransactionRepository)
	repo.On("Count", ctx).Return(int64(0), nil)
	repo.On("MaxDisplayNumber", ctx).Return(int64(0), nil)
	repo.On("Create", ctx, mock.Anything).Return(nil, model.ErrDuplicate)

	_, err := NewTransactionService(repo, time.UTC).Create(ctx, model.TransactionCreateRequest{
		CustomerNumber: "1", CustomerName: "A", Type: model.TransactionTypePLN, Amount: 1,
	})
	assert.ErrorIs(t, err, model.ErrDuplicate)
	repo.AssertNumberOfCalls(t, "Create", maxIDAttempts)
}

func TestTransactionService_CreateInvalid(t *testing.T) {
	repo := new(MockTransactionRepository)
	_, err := NewTransactionService(repo, time.UTC).Create(context.Background(), model.TransactionCreateRequest{CustomerNumber: "1"})
	assert.EqualError(t, err, "Missing required fields")
	repo.AssertNotCalled(t, "Count", mock.Anything)
}

func TestTransactionService_Stats(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTransactionRepository)
	repo.On("List", ctx, model.TransactionFilter{}).Return([]*model.Transaction{
		{ID: "TRX003", Status: model.TransactionStatusPending, Amount: 50000},
		{ID: "TRX002", Status: model.TransactionStatusSuccess, Amount: 100000},
		{ID: "TRX001", Status: model.TransactionStatusSuccess, Amount: 25000},
		{ID: "TRX000", Status: model.TransactionStatusFailed, Amount: 9000},
	}, nil)

	stats, err := NewTransactionService(repo, time.UTC).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &model.TransactionStats{
		TotalTransactions:   4,
		SuccessTransactions: 2,
		TotalRevenue:        125000,
		PendingTransactions: 1,
	}, stats)
}

func TestTransactionService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTransactionRepository)
	repo.On("Delete", ctx, "TRX404").Return(model.ErrNotFound)

	err := NewTransactionService(repo, time.UTC).Delete(ctx, "TRX404")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}
