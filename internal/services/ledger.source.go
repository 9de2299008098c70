package services

import (
	"context"
	"errors"

	gateway "github.com/nimasrn/ppob-gateway/internal/gateways"
	"github.com/nimasrn/ppob-gateway/internal/model"
)

// LedgerSource answers bill inquiries from the stored PLN customer ledger
// instead of a live upstream.
type LedgerSource struct {
	repo PLNCustomerRepository
}

func NewLedgerSource(repo PLNCustomerRepository) *LedgerSource {
	return &LedgerSource{repo: repo}
}

func (s *LedgerSource) Name() string {
	return model.BillCheckSourceLedger
}

// Check reports the oldest unpaid bill of the customer.
func (s *LedgerSource) Check(ctx context.Context, customerNumber string) (*model.BillCheckResult, error) {
	c, err := s.repo.Get(ctx, customerNumber)
	if errors.Is(err, model.ErrNotFound) {
		return nil, gateway.Rejected("")
	}
	if err != nil {
		return nil, err
	}

	idx := c.FirstUnpaidBill()
	if idx < 0 {
		return nil, gateway.Rejected("Tidak ada tagihan yang belum dibayar")
	}
	bill := c.Bills[idx]

	res := &model.BillCheckResult{
		CustomerNumber: c.CustomerNumber,
		CustomerName:   c.CustomerName,
		TariffPower:    c.TariffPower,
		StandMeter:     c.StandMeter,
		Period:         bill.Period,
		BillAmount:     bill.Amount,
		Source:         s.Name(),
	}
	res.ApplyAdminFee(c.AdminFee)
	return res, nil
}
