package repository

import (
	"checkout-core/internal/model"
	"context"

	"gorm.io/gorm"
)

type TaxRuleRepository interface {
	FindEnabled(ctx context.Context, storeID string, appliesToShipping bool) ([]*model.TaxRule, error)
}

type taxRuleRepoImpl struct {
	db *gorm.DB
}

func NewTaxRuleRepository(db *gorm.DB) TaxRuleRepository {
	return &taxRuleRepoImpl{
		db: db,
	}
}

func (r *taxRuleRepoImpl) FindEnabled(ctx context.Context, storeID string, appliesToShipping bool) ([]*model.TaxRule, error) {
	var rules []*model.TaxRule
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND enabled = ? AND applies_to_shipping = ?", storeID, true, appliesToShipping).
		Find(&rules).Error

	if err != nil {
		return nil, err
	}

	return rules, nil
}
