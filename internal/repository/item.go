package repository

import (
	"checkout-core/internal/model"
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogItemRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, storeID, itemID string) (*model.CatalogItem, error)
}

type catalogItemRepoImpl struct {
	db *gorm.DB
}

func NewCatalogItemRepository(db *gorm.DB) CatalogItemRepository {
	return &catalogItemRepoImpl{
		db: db,
	}
}

func (r *catalogItemRepoImpl) Seed(ctx context.Context) error {
	currencies := []model.Currency{
		{ID: "USD", Symbol: "$"},
		{ID: "EUR", Symbol: "€"},
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&currencies).Error; err != nil {
		return err
	}

	items := []model.CatalogItem{
		{ID: "mug_classic", StoreID: "demo-store", Name: "Classic Mug", Price: 1200, CurrencyID: "USD", WeightKg: decimal.RequireFromString("0.350"), Available: true},
		{ID: "tee_basic", StoreID: "demo-store", Name: "Basic Tee", Price: 2000, CurrencyID: "USD", WeightKg: decimal.RequireFromString("0.200"), Available: true},
		{ID: "poster_a2", StoreID: "demo-store", Name: "A2 Poster", Price: 900, CurrencyID: "USD", WeightKg: decimal.RequireFromString("0.080"), Available: true},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&items).Error
}

func (r *catalogItemRepoImpl) FindByID(ctx context.Context, storeID, itemID string) (*model.CatalogItem, error) {
	var item model.CatalogItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ? AND available = ?", itemID, storeID, true).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}
