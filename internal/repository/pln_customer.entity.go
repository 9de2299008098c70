package repository

import (
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"gorm.io/datatypes"
)

// PLNCustomerEntity keeps bills embedded in a JSON column, mirroring the
// document layout of the mongo store.
type PLNCustomerEntity struct {
	CustomerNumber string                              `db:"customer_number" gorm:"primaryKey;column:customer_number"`
	CustomerName   string                              `db:"customer_name"   gorm:"column:customer_name;not null"`
	TariffPower    string                              `db:"tariff_power"    gorm:"column:tariff_power;not null"`
	StandMeter     string                              `db:"stand_meter"     gorm:"column:stand_meter;not null"`
	Bills          datatypes.JSONSlice[model.PLNBill] `db:"bills"           gorm:"column:bills"`
	AdminFee       int64                               `db:"admin_fee"       gorm:"column:admin_fee;not null"`
	CreatedAt      time.Time                           `db:"created_at"      gorm:"column:created_at;index"`
	UpdatedAt      time.Time                           `db:"updated_at"      gorm:"column:updated_at"`
}

func (PLNCustomerEntity) TableName() string {
	return "pln_customers"
}

func toPLNCustomerEntity(m *model.PLNCustomer) *PLNCustomerEntity {
	if m == nil {
		return nil
	}
	bills := make([]model.PLNBill, len(m.Bills))
	copy(bills, m.Bills)
	return &PLNCustomerEntity{
		CustomerNumber: m.CustomerNumber,
		CustomerName:   m.CustomerName,
		TariffPower:    m.TariffPower,
		StandMeter:     m.StandMeter,
		Bills:          bills,
		AdminFee:       m.AdminFee,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toPLNCustomerModel(e *PLNCustomerEntity) *model.PLNCustomer {
	if e == nil {
		return nil
	}
	bills := make([]model.PLNBill, len(e.Bills))
	copy(bills, e.Bills)
	return &model.PLNCustomer{
		CustomerNumber: e.CustomerNumber,
		CustomerName:   e.CustomerName,
		TariffPower:    e.TariffPower,
		StandMeter:     e.StandMeter,
		Bills:          bills,
		AdminFee:       e.AdminFee,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
