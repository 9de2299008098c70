package repository

import (
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
)

type AdminEntity struct {
	Username  string    `db:"username"   gorm:"primaryKey;column:username"`
	Password  string    `db:"password"   gorm:"column:password;not null"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (AdminEntity) TableName() string {
	return "admins"
}

func toAdminEntity(m *model.Admin) *AdminEntity {
	if m == nil {
		return nil
	}
	return &AdminEntity{
		Username:  m.Username,
		Password:  m.PasswordHash,
		CreatedAt: m.CreatedAt,
	}
}

func toAdminModel(e *AdminEntity) *model.Admin {
	if e == nil {
		return nil
	}
	return &model.Admin{
		Username:     e.Username,
		PasswordHash: e.Password,
		CreatedAt:    e.CreatedAt,
	}
}
