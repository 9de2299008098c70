package repository

import (
	"context"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/pkg/pg"
	"gorm.io/datatypes"
)

type PLNCustomerRepository struct {
	*pg.DB
}

func NewPLNCustomerRepository(db *pg.DB) *PLNCustomerRepository {
	return &PLNCustomerRepository{
		db,
	}
}

func (r *PLNCustomerRepository) List(ctx context.Context) ([]*model.PLNCustomer, error) {
	var entities []*PLNCustomerEntity
	if err := r.Read(ctx).Order("created_at DESC").Find(&entities).Error; err != nil {
		return nil, err
	}
	customers := make([]*model.PLNCustomer, len(entities))
	for i, e := range entities {
		customers[i] = toPLNCustomerModel(e)
	}
	return customers, nil
}

func (r *PLNCustomerRepository) Get(ctx context.Context, customerNumber string) (*model.PLNCustomer, error) {
	var entity PLNCustomerEntity
	if err := r.Read(ctx).Where("customer_number = ?", customerNumber).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return toPLNCustomerModel(&entity), nil
}

func (r *PLNCustomerRepository) Create(ctx context.Context, c *model.PLNCustomer) (*model.PLNCustomer, error) {
	entity := toPLNCustomerEntity(c)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, translate(err)
	}
	return toPLNCustomerModel(entity), nil
}

// Update rewrites every mutable column, including the whole bill list.
func (r *PLNCustomerRepository) Update(ctx context.Context, c *model.PLNCustomer) (*model.PLNCustomer, error) {
	c.UpdatedAt = time.Now()
	res := r.Write(ctx).Model(&PLNCustomerEntity{}).
		Where("customer_number = ?", c.CustomerNumber).
		Updates(map[string]any{
			"customer_name": c.CustomerName,
			"tariff_power":  c.TariffPower,
			"stand_meter":   c.StandMeter,
			"bills":         datatypes.JSONSlice[model.PLNBill](c.Bills),
			"admin_fee":     c.AdminFee,
			"updated_at":    c.UpdatedAt,
		})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, model.ErrNotFound
	}
	return r.Get(ctx, c.CustomerNumber)
}

func (r *PLNCustomerRepository) Delete(ctx context.Context, customerNumber string) error {
	res := r.Write(ctx).Where("customer_number = ?", customerNumber).Delete(&PLNCustomerEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
