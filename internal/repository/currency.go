package repository

import (
	"checkout-core/internal/model"
	"context"

	"gorm.io/gorm"
)

type CurrencyRepository interface {
	FindByID(ctx context.Context, currencyID string) (*model.Currency, error)
}

type currencyRepoImpl struct {
	db *gorm.DB
}

func NewCurrencyRepository(db *gorm.DB) CurrencyRepository {
	return &currencyRepoImpl{
		db: db,
	}
}

func (r *currencyRepoImpl) FindByID(ctx context.Context, currencyID string) (*model.Currency, error) {
	var currency model.Currency
	err := r.db.WithContext(ctx).
		Where("id = ?", currencyID).
		First(&currency).Error

	if err != nil {
		return nil, err
	}

	return &currency, nil
}
