package repository

import (
	"checkout-core/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type CouponRepository interface {
	FindByCode(ctx context.Context, storeID, code string) (*model.Coupon, error)
	// Consume atomically increments used_count if the coupon is still active
	// and under its usage limit, and reports whether a row was modified.
	Consume(ctx context.Context, storeID, code string) (bool, error)
	// Release decrements used_count, floored at zero.
	Release(ctx context.Context, storeID, code string) error
}

type couponRepoImpl struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepoImpl{
		db: db,
	}
}

func (r *couponRepoImpl) FindByCode(ctx context.Context, storeID, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND code = ?", storeID, code).
		First(&coupon).Error

	if err != nil {
		return nil, err
	}

	return &coupon, nil
}

// The check-and-increment must stay one UPDATE: it is the concurrency-control
// mechanism for the usage limit and holds across multiple server instances.
func (r *couponRepoImpl) Consume(ctx context.Context, storeID, code string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("store_id = ? AND code = ? AND active = ?", storeID, code, true).
		Where("global_usage_limit IS NULL OR used_count < global_usage_limit").
		Updates(map[string]interface{}{
			"used_count": gorm.Expr("used_count + 1"),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *couponRepoImpl) Release(ctx context.Context, storeID, code string) error {
	return r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("store_id = ? AND code = ? AND used_count > 0", storeID, code).
		Updates(map[string]interface{}{
			"used_count": gorm.Expr("used_count - 1"),
			"updated_at": time.Now(),
		}).Error
}
