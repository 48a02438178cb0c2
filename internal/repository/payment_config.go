package repository

import (
	"checkout-core/internal/model"
	"context"

	"gorm.io/gorm"
)

type PaymentConfigRepository interface {
	GetEnabled(ctx context.Context, storeID, providerCode string) (*model.PaymentMethodConfig, error)
	ListEnabled(ctx context.Context, storeID string) ([]*model.PaymentMethodConfig, error)
}

type paymentConfigRepoImpl struct {
	db *gorm.DB
}

func NewPaymentConfigRepository(db *gorm.DB) PaymentConfigRepository {
	return &paymentConfigRepoImpl{
		db: db,
	}
}

func (r *paymentConfigRepoImpl) GetEnabled(ctx context.Context, storeID, providerCode string) (*model.PaymentMethodConfig, error) {
	var cfg model.PaymentMethodConfig
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND provider_code = ? AND enabled = ?", storeID, providerCode, true).
		First(&cfg).Error

	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (r *paymentConfigRepoImpl) ListEnabled(ctx context.Context, storeID string) ([]*model.PaymentMethodConfig, error) {
	var configs []*model.PaymentMethodConfig
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND enabled = ?", storeID, true).
		Order("provider_code").
		Find(&configs).Error

	if err != nil {
		return nil, err
	}

	return configs, nil
}
