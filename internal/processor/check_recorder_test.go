package processor

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	mu      sync.Mutex
	created []model.TransactionCreateRequest
	err     error
}

func (f *fakeCreator) Create(_ context.Context, p model.TransactionCreateRequest) (*model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, p)
	return &model.Transaction{
		ID:             model.TransactionDisplayID(int64(len(f.created))),
		CustomerNumber: p.CustomerNumber,
		CustomerName:   p.CustomerName,
		Type:           p.Type,
		Amount:         p.Amount,
		Status:         p.Status,
	}, nil
}

func (f *fakeCreator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func eventMessage(t *testing.T, ev model.CheckEvent) *queue.Message {
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return &queue.Message{ID: "1-0", Data: b, Attempts: 1}
}

func successEvent(id string) model.CheckEvent {
	return model.CheckEvent{
		ID:             id,
		CustomerNumber: "530000000001",
		Success:        true,
		Result: &model.BillCheckResult{
			CustomerNumber: "530000000001",
			CustomerName:   "BUDI",
			BillAmount:     150000,
			AdminFee:       2500,
			TotalPayment:   152500,
		},
	}
}

func TestCheckRecorder_RecordsOncePerEvent(t *testing.T) {
	_, adapter := setupRedis(t)
	creator := &fakeCreator{}
	rec := NewCheckRecorder(creator, NewIdempotencyService(adapter, DefaultIdempotencyConfig()))
	ctx := context.Background()

	msg := eventMessage(t, successEvent("evt-1"))
	require.NoError(t, rec.Process(ctx, msg))
	assert.ErrorIs(t, rec.Process(ctx, msg), errSkipped)

	require.Equal(t, 1, creator.count())
	got := creator.created[0]
	assert.Equal(t, model.TransactionTypePLN, got.Type)
	assert.Equal(t, model.TransactionStatusPending, got.Status)
	assert.Equal(t, int64(152500), got.Amount)
	assert.Equal(t, "BUDI", got.CustomerName)
}

func TestCheckRecorder_SkipsWithoutWriting(t *testing.T) {
	_, adapter := setupRedis(t)
	creator := &fakeCreator{}
	rec := NewCheckRecorder(creator, NewIdempotencyService(adapter, DefaultIdempotencyConfig()))
	ctx := context.Background()

	rejected := model.CheckEvent{ID: "evt-2", CustomerNumber: "1", Message: "ID Pelanggan tidak ditemukan"}
	assert.ErrorIs(t, rec.Process(ctx, eventMessage(t, rejected)), errSkipped)
	assert.ErrorIs(t, rec.Process(ctx, &queue.Message{ID: "2-0", Data: []byte("{")}), errSkipped)

	noName := successEvent("evt-3")
	noName.Result.CustomerName = ""
	assert.ErrorIs(t, rec.Process(ctx, eventMessage(t, noName)), errSkipped)

	assert.Zero(t, creator.count())
}

func TestCheckRecorder_StorageFailureRetries(t *testing.T) {
	_, adapter := setupRedis(t)
	creator := &fakeCreator{err: assert.AnError}
	idem := NewIdempotencyService(adapter, DefaultIdempotencyConfig())
	rec := NewCheckRecorder(creator, idem)
	ctx := context.Background()

	err := rec.Process(ctx, eventMessage(t, successEvent("evt-4")))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errSkipped)

	n, err := idem.GetRetryCount(ctx, "evt-4")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	creator.err = nil
	require.NoError(t, rec.Process(ctx, eventMessage(t, successEvent("evt-4"))))
	assert.Equal(t, 1, creator.count())
}
