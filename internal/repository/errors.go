package repository

import (
	"errors"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"gorm.io/gorm"
)

// translate maps gorm errors onto the storage errors services understand.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return model.ErrDuplicate
	default:
		return err
	}
}
