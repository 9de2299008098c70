package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/internal/queue"
	"github.com/nimasrn/ppob-gateway/pkg/logger"
	"github.com/nimasrn/ppob-gateway/pkg/prom"
)

const (
	recordedResultCreated  = "created"
	recordedResultRejected = "rejected"
	recordedResultInvalid  = "invalid"
	recordedResultGaveUp   = "gave_up"
)

// errSkipped marks an event acknowledged without a transaction being written.
var errSkipped = errors.New("event skipped")

type TransactionCreator interface {
	Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error)
}

// CheckRecorder turns successful bill-check events into pending PLN
// transactions, at most once per event id.
type CheckRecorder struct {
	transactions TransactionCreator
	idempotency  *IdempotencyService
}

func NewCheckRecorder(transactions TransactionCreator, idempotency *IdempotencyService) *CheckRecorder {
	return &CheckRecorder{
		transactions: transactions,
		idempotency:  idempotency,
	}
}

func (p *CheckRecorder) GetType() string {
	return "check-recorder"
}

func (p *CheckRecorder) Process(ctx context.Context, msg *queue.Message) error {
	var event model.CheckEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil || event.ID == "" {
		logger.Error("dropping malformed check event", "stream_id", msg.ID, "error", err)
		prom.IncCheckRecorded(recordedResultInvalid)
		return errSkipped
	}

	if !event.Success || event.Result == nil {
		logger.Debug("check was rejected upstream, nothing to record",
			"event_id", event.ID,
			"customer_number", event.CustomerNumber,
			"message", event.Message)
		prom.IncCheckRecorded(recordedResultRejected)
		return errSkipped
	}

	req := model.TransactionCreateRequest{
		CustomerNumber: event.Result.CustomerNumber,
		CustomerName:   event.Result.CustomerName,
		Type:           model.TransactionTypePLN,
		Amount:         event.Result.TotalPayment,
		Status:         model.TransactionStatusPending,
	}
	if err := req.Validate(); err != nil {
		logger.Warn("check result cannot become a transaction", "event_id", event.ID, "error", err)
		prom.IncCheckRecorded(recordedResultInvalid)
		return errSkipped
	}

	procCtx, err := p.idempotency.AcquireProcessingLock(ctx, event.ID)
	switch {
	case errors.Is(err, ErrAlreadyProcessed):
		logger.Info("check event already recorded", "event_id", event.ID)
		return errSkipped
	case errors.Is(err, ErrMaxRetriesExceeded):
		logger.Error("giving up on check event", "event_id", event.ID, "error", err)
		prom.IncCheckRecorded(recordedResultGaveUp)
		return errSkipped
	case err != nil:
		return err
	}
	defer p.idempotency.ReleaseLock(ctx, procCtx)

	txn, err := p.transactions.Create(ctx, req)
	if err != nil {
		_ = p.idempotency.MarkFailure(ctx, procCtx, err)
		return fmt.Errorf("record check %s: %w", event.ID, err)
	}

	if err := p.idempotency.MarkSuccess(ctx, procCtx); err != nil {
		logger.Error("failed to mark event as recorded", "event_id", event.ID, "error", err)
	}
	prom.IncCheckRecorded(recordedResultCreated)

	logger.Info("check recorded as transaction",
		"event_id", event.ID,
		"transaction_id", txn.ID,
		"customer_number", txn.CustomerNumber,
		"amount", txn.Amount,
		"retry", procCtx.IsRetry())
	return nil
}
