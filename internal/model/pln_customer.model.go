package model

import "time"

const (
	DefaultTariffPower       = "R1/900VA"
	DefaultStandMeter        = "00000000-00000000"
	DefaultAdminFee    int64 = 2500
)

type PLNBill struct {
	Period string `json:"period" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
	IsPaid bool   `json:"isPaid"`
}

// PLNCustomer is a ledger entry for a PLN postpaid customer together with
// its billing periods, oldest first.
type PLNCustomer struct {
	CustomerNumber string    `json:"customerNumber"`
	CustomerName   string    `json:"customerName"`
	TariffPower    string    `json:"tariffPower"`
	StandMeter     string    `json:"standMeter"`
	Bills          []PLNBill `json:"bills"`
	AdminFee       int64     `json:"adminFee"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FirstUnpaidBill returns the index of the oldest unpaid bill, or -1.
func (c *PLNCustomer) FirstUnpaidBill() int {
	for i := range c.Bills {
		if !c.Bills[i].IsPaid {
			return i
		}
	}
	return -1
}

type PLNCustomerCreateRequest struct {
	CustomerNumber string    `json:"customerNumber" validate:"required"`
	CustomerName   string    `json:"customerName" validate:"required"`
	TariffPower    string    `json:"tariffPower"`
	StandMeter     string    `json:"standMeter"`
	AdminFee       *int64    `json:"adminFee" validate:"omitnil,gte=0"`
	Bills          []PLNBill `json:"bills" validate:"omitempty,dive"`
}

func (p PLNCustomerCreateRequest) Validate() error {
	return validateStruct(p, "Customer number and name are required")
}

// ToCustomer applies the ledger defaults for omitted fields.
func (p PLNCustomerCreateRequest) ToCustomer() *PLNCustomer {
	c := &PLNCustomer{
		CustomerNumber: p.CustomerNumber,
		CustomerName:   p.CustomerName,
		TariffPower:    p.TariffPower,
		StandMeter:     p.StandMeter,
		AdminFee:       DefaultAdminFee,
		Bills:          make([]PLNBill, 0, len(p.Bills)),
	}
	if c.TariffPower == "" {
		c.TariffPower = DefaultTariffPower
	}
	if c.StandMeter == "" {
		c.StandMeter = DefaultStandMeter
	}
	if p.AdminFee != nil {
		c.AdminFee = *p.AdminFee
	}
	for _, b := range p.Bills {
		c.Bills = append(c.Bills, PLNBill{Period: b.Period, Amount: b.Amount, IsPaid: b.IsPaid})
	}
	return c
}

// PLNCustomerUpdate is a partial update; nil fields are left untouched.
// Bills are not updatable here, only through AddBill and PayBill.
type PLNCustomerUpdate struct {
	CustomerName *string `json:"customerName" validate:"omitnil,min=1"`
	TariffPower  *string `json:"tariffPower" validate:"omitnil,min=1"`
	StandMeter   *string `json:"standMeter" validate:"omitnil,min=1"`
	AdminFee     *int64  `json:"adminFee" validate:"omitnil,gte=0"`
}

func (p PLNCustomerUpdate) Validate() error {
	return validateStruct(p, "Invalid customer update")
}

func (p PLNCustomerUpdate) Apply(c *PLNCustomer) {
	if p.CustomerName != nil {
		c.CustomerName = *p.CustomerName
	}
	if p.TariffPower != nil {
		c.TariffPower = *p.TariffPower
	}
	if p.StandMeter != nil {
		c.StandMeter = *p.StandMeter
	}
	if p.AdminFee != nil {
		c.AdminFee = *p.AdminFee
	}
}

type AddBillRequest struct {
	Period string `json:"period" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

func (p AddBillRequest) Validate() error {
	return validateStruct(p, "Period and amount are required")
}
