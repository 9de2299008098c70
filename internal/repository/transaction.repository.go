package repository

import (
	"context"
	"strings"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/pkg/pg"
)

type TransactionRepository struct {
	*pg.DB
}

func NewTransactionRepository(db *pg.DB) *TransactionRepository {
	return &TransactionRepository{
		db,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	entity := toTransactionEntity(txn)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, translate(err)
	}

	return toTransactionModel(entity), nil
}

func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.Read(ctx).Model(&TransactionEntity{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// MaxDisplayNumber returns the highest number behind a TRXnnn id. Ids are
// compared numerically since TRX1000 sorts before TRX999 as text.
func (r *TransactionRepository) MaxDisplayNumber(ctx context.Context) (int64, error) {
	var ids []string
	err := r.Read(ctx).Model(&TransactionEntity{}).
		Where("id LIKE ?", model.TransactionIDPrefix+"%").
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	return model.MaxDisplayNumber(ids), nil
}

// List returns transactions newest first.
func (r *TransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error) {
	q := r.Read(ctx).Model(&TransactionEntity{})

	if term := strings.TrimSpace(f.Query); term != "" {
		lower := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(id) LIKE ? OR LOWER(customer_name) LIKE ? OR customer_number LIKE ?",
			lower, lower, "%"+term+"%")
	}

	var entities []*TransactionEntity
	if err := q.Order("created_at DESC").Order("pk DESC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toTransactionModels(entities), nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	res := r.Write(ctx).Where("id = ?", id).Delete(&TransactionEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
