package repository

import (
	"checkout-core/internal/model"
	"context"

	"gorm.io/gorm"
)

type ShippingMethodRepository interface {
	FindEnabled(ctx context.Context, storeID string) ([]*model.ShippingMethod, error)
}

type shippingMethodRepoImpl struct {
	db *gorm.DB
}

func NewShippingMethodRepository(db *gorm.DB) ShippingMethodRepository {
	return &shippingMethodRepoImpl{
		db: db,
	}
}

func (r *shippingMethodRepoImpl) FindEnabled(ctx context.Context, storeID string) ([]*model.ShippingMethod, error) {
	var methods []*model.ShippingMethod
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND enabled = ?", storeID, true).
		Order("id").
		Find(&methods).Error

	if err != nil {
		return nil, err
	}

	return methods, nil
}
