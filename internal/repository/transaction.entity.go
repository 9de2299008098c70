package repository

import (
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
)

type TransactionEntity struct {
	PK             int64     `db:"pk"              gorm:"primaryKey;autoIncrement;column:pk"`
	ID             string    `db:"id"              gorm:"column:id;uniqueIndex;not null"`
	CustomerNumber string    `db:"customer_number" gorm:"column:customer_number;not null;index"`
	CustomerName   string    `db:"customer_name"   gorm:"column:customer_name;not null"`
	Type           string    `db:"type"            gorm:"column:type;not null"`
	Amount         int64     `db:"amount"          gorm:"column:amount;not null"`
	Status         string    `db:"status"          gorm:"column:status;not null"`
	Date           string    `db:"date"            gorm:"column:date;not null"`
	CreatedAt      time.Time `db:"created_at"      gorm:"column:created_at;index"`
}

func (TransactionEntity) TableName() string {
	return "transactions"
}

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	return &TransactionEntity{
		ID:             m.ID,
		CustomerNumber: m.CustomerNumber,
		CustomerName:   m.CustomerName,
		Type:           string(m.Type),
		Amount:         m.Amount,
		Status:         string(m.Status),
		Date:           m.Date,
		CreatedAt:      m.CreatedAt,
	}
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	return &model.Transaction{
		ID:             e.ID,
		CustomerNumber: e.CustomerNumber,
		CustomerName:   e.CustomerName,
		Type:           model.TransactionType(e.Type),
		Amount:         e.Amount,
		Status:         model.TransactionStatus(e.Status),
		Date:           e.Date,
		CreatedAt:      e.CreatedAt,
	}
}

func toTransactionModels(entities []*TransactionEntity) []*model.Transaction {
	models := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		models[i] = toTransactionModel(e)
	}
	return models
}
