package mongorepo

import (
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names match the ones the dashboard has always written to.
const (
	CollectionAdmins       = "admins"
	CollectionTransactions = "transactions"
	CollectionPLNCustomers = "plncustomers"
)

type adminDocument struct {
	ObjectID  primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func toAdminDocument(m *model.Admin) *adminDocument {
	return &adminDocument{
		Username:  m.Username,
		Password:  m.PasswordHash,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.CreatedAt,
	}
}

func (d *adminDocument) toModel() *model.Admin {
	return &model.Admin{
		Username:     d.Username,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}

type transactionDocument struct {
	ObjectID       primitive.ObjectID `bson:"_id,omitempty"`
	ID             string             `bson:"id"`
	CustomerNumber string             `bson:"customerNumber"`
	CustomerName   string             `bson:"customerName"`
	Type           string             `bson:"type"`
	Amount         int64              `bson:"amount"`
	Status         string             `bson:"status"`
	Date           string             `bson:"date"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

func toTransactionDocument(m *model.Transaction) *transactionDocument {
	return &transactionDocument{
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

func (d *transactionDocument) toModel() *model.Transaction {
	return &model.Transaction{
		ID:             d.ID,
		CustomerNumber: d.CustomerNumber,
		CustomerName:   d.CustomerName,
		Type:           model.TransactionType(d.Type),
		Amount:         d.Amount,
		Status:         model.TransactionStatus(d.Status),
		Date:           d.Date,
		CreatedAt:      d.CreatedAt,
	}
}

type billDocument struct {
	Period string `bson:"period"`
	Amount int64  `bson:"amount"`
	IsPaid bool   `bson:"isPaid"`
}

type plnCustomerDocument struct {
	ObjectID       primitive.ObjectID `bson:"_id,omitempty"`
	CustomerNumber string             `bson:"customerNumber"`
	CustomerName   string             `bson:"customerName"`
	TariffPower    string             `bson:"tariffPower"`
	StandMeter     string             `bson:"standMeter"`
	Bills          []billDocument     `bson:"bills"`
	AdminFee       int64              `bson:"adminFee"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func toBillDocuments(bills []model.PLNBill) []billDocument {
	docs := make([]billDocument, len(bills))
	for i, b := range bills {
		docs[i] = billDocument{Period: b.Period, Amount: b.Amount, IsPaid: b.IsPaid}
	}
	return docs
}

func toPLNCustomerDocument(m *model.PLNCustomer) *plnCustomerDocument {
	return &plnCustomerDocument{
		CustomerNumber: m.CustomerNumber,
		CustomerName:   m.CustomerName,
		TariffPower:    m.TariffPower,
		StandMeter:     m.StandMeter,
		Bills:          toBillDocuments(m.Bills),
		AdminFee:       m.AdminFee,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (d *plnCustomerDocument) toModel() *model.PLNCustomer {
	bills := make([]model.PLNBill, len(d.Bills))
	for i, b := range d.Bills {
		bills[i] = model.PLNBill{Period: b.Period, Amount: b.Amount, IsPaid: b.IsPaid}
	}
	return &model.PLNCustomer{
		CustomerNumber: d.CustomerNumber,
		CustomerName:   d.CustomerName,
		TariffPower:    d.TariffPower,
		StandMeter:     d.StandMeter,
		Bills:          bills,
		AdminFee:       d.AdminFee,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
