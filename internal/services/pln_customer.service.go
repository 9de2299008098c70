package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/nimasrn/ppob-gateway/internal/model"
)

var (
	ErrBillNotFound     = errors.New("Bill not found")
	ErrInvalidBillIndex = &model.ValidationError{Message: "Invalid bill index"}
)

type PLNCustomerRepository interface {
	List(ctx context.Context) ([]*model.PLNCustomer, error)
	Get(ctx context.Context, customerNumber string) (*model.PLNCustomer, error)
	Create(ctx context.Context, c *model.PLNCustomer) (*model.PLNCustomer, error)
	Update(ctx context.Context, c *model.PLNCustomer) (*model.PLNCustomer, error)
	Delete(ctx context.Context, customerNumber string) error
}

type PLNCustomerService struct {
	repo PLNCustomerRepository
}

func NewPLNCustomerService(repo PLNCustomerRepository) *PLNCustomerService {
	return &PLNCustomerService{repo: repo}
}

func (s *PLNCustomerService) List(ctx context.Context) ([]*model.PLNCustomer, error) {
	return s.repo.List(ctx)
}

func (s *PLNCustomerService) Get(ctx context.Context, customerNumber string) (*model.PLNCustomer, error) {
	return s.repo.Get(ctx, customerNumber)
}

func (s *PLNCustomerService) Create(ctx context.Context, p model.PLNCustomerCreateRequest) (*model.PLNCustomer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p.ToCustomer())
}

func (s *PLNCustomerService) Update(ctx context.Context, customerNumber string, p model.PLNCustomerUpdate) (*model.PLNCustomer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.Get(ctx, customerNumber)
	if err != nil {
		return nil, err
	}
	p.Apply(c)
	return s.repo.Update(ctx, c)
}

func (s *PLNCustomerService) Delete(ctx context.Context, customerNumber string) error {
	return s.repo.Delete(ctx, customerNumber)
}

// AddBill appends an unpaid bill to the customer's ledger.
func (s *PLNCustomerService) AddBill(ctx context.Context, customerNumber string, p model.AddBillRequest) (*model.PLNCustomer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.Get(ctx, customerNumber)
	if err != nil {
		return nil, err
	}
	c.Bills = append(c.Bills, model.PLNBill{Period: p.Period, Amount: p.Amount})
	return s.repo.Update(ctx, c)
}

// PayBill marks the bill at the given position as paid. Paying an already
// paid bill succeeds without writing.
func (s *PLNCustomerService) PayBill(ctx context.Context, customerNumber, billIndex string) (*model.PLNCustomer, error) {
	idx, err := strconv.Atoi(billIndex)
	if err != nil || idx < 0 {
		return nil, ErrInvalidBillIndex
	}

	c, err := s.repo.Get(ctx, customerNumber)
	if err != nil {
		return nil, err
	}
	if idx >= len(c.Bills) {
		return nil, ErrBillNotFound
	}
	if c.Bills[idx].IsPaid {
		return c, nil
	}

	c.Bills[idx].IsPaid = true
	return s.repo.Update(ctx, c)
}
