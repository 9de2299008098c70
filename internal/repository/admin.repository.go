package repository

import (
	"context"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/pkg/pg"
)

type AdminRepository struct {
	*pg.DB
}

func NewAdminRepository(db *pg.DB) *AdminRepository {
	return &AdminRepository{
		db,
	}
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var entity AdminEntity
	if err := r.Read(ctx).Where("username = ?", username).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return toAdminModel(&entity), nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	entity := toAdminEntity(admin)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return translate(err)
	}
	admin.CreatedAt = entity.CreatedAt
	return nil
}
