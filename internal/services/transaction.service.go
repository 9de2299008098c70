package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/pkg/prom"
)

// maxIDAttempts bounds how often Create retries after a taken display id.
// The first try uses count+1; later tries use the highest stored id + 1.
const maxIDAttempts = 5

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	Count(ctx context.Context) (int64, error)
	MaxDisplayNumber(ctx context.Context) (int64, error)
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error)
	Delete(ctx context.Context, id string) error
}

type TransactionService struct {
	repo TransactionRepository
	loc  *time.Location
	now  func() time.Time
}

func NewTransactionService(repo TransactionRepository, loc *time.Location) *TransactionService {
	return &TransactionService{repo: repo, loc: loc, now: time.Now}
}

func (s *TransactionService) Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Status == "" {
		p.Status = model.TransactionStatusSuccess
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}

	now := s.now()
	txn := &model.Transaction{
		CustomerNumber: p.CustomerNumber,
		CustomerName:   p.CustomerName,
		Type:           p.Type,
		Amount:         p.Amount,
		Status:         p.Status,
		Date:           model.FormatTransactionDate(now, s.loc),
		CreatedAt:      now,
	}

	next := count + 1
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		txn.ID = model.TransactionDisplayID(next)
		created, err := s.repo.Create(ctx, txn)
		if errors.Is(err, model.ErrDuplicate) {
			// deletions leave the count behind the numbers in use
			highest, err := s.repo.MaxDisplayNumber(ctx)
			if err != nil {
				return nil, fmt.Errorf("find highest transaction id: %w", err)
			}
			next = max(highest, next) + 1
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create transaction: %w", err)
		}
		prom.IncTransactionCreated(string(created.Type), string(created.Status))
		return created, nil
	}
	return nil, fmt.Errorf("create transaction: no free id after %d attempts: %w", maxIDAttempts, model.ErrDuplicate)
}

func (s *TransactionService) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error) {
	return s.repo.List(ctx, f)
}

// Stats summarises every stored transaction for the dashboard cards.
func (s *TransactionService) Stats(ctx context.Context) (*model.TransactionStats, error) {
	items, err := s.repo.List(ctx, model.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	stats := &model.TransactionStats{TotalTransactions: int64(len(items))}
	for _, t := range items {
		switch t.Status {
		case model.TransactionStatusSuccess:
			stats.SuccessTransactions++
			stats.TotalRevenue += t.Amount
		case model.TransactionStatusPending:
			stats.PendingTransactions++
		}
	}
	return stats, nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
