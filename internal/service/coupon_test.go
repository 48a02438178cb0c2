package service

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/model"
	"checkout-core/internal/repository"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponValidate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewCouponService(repository.NewCouponRepository(db))

	past := time.Now().Add(-48 * time.Hour)
	recent := time.Now().Add(-time.Hour)
	future := time.Now().Add(48 * time.Hour)

	seedCoupon(t, db, &model.Coupon{StoreID: "s1", Code: "SAVE10", DiscountType: model.DiscountPercent, Value: dec("10"), Active: true})
	seedCoupon(t, db, &model.Coupon{StoreID: "s1", Code: "OFF", DiscountType: model.DiscountFixed, Value: dec("500"), Active: false})
	seedCoupon(t, db, &model.Coupon{StoreID: "s1", Code: "GONE", DiscountType: model.DiscountFixed, Value: dec("500"), Active: true, ValidFrom: &past, ValidTo: &recent})
	seedCoupon(t, db, &model.Coupon{StoreID: "s1", Code: "SOON", DiscountType: model.DiscountFixed, Value: dec("500"), Active: true, ValidFrom: &future})
	seedCoupon(t, db, &model.Coupon{StoreID: "s1", Code: "BIG", DiscountType: model.DiscountFixed, Value: dec("500"), Active: true, MinOrderAmount: intPtr(5000)})
	seedCoupon(t, db, &model.Coupon{StoreID: "s1", Code: "MAXED", DiscountType: model.DiscountFixed, Value: dec("500"), Active: true, GlobalUsageLimit: int32Ptr(1), UsedCount: 1})

	t.Run("ok", func(t *testing.T) {
		coupon, err := svc.Validate(ctx, "s1", "SAVE10", 4000)
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", coupon.Code)
	})

	t.Run("blank code", func(t *testing.T) {
		_, err := svc.Validate(ctx, "s1", "", 4000)
		assert.True(t, apperr.Is(err, apperr.CodeValidation))
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := svc.Validate(ctx, "s1", "NOPE", 4000)
		assert.True(t, apperr.Is(err, apperr.CodeCouponNotFound))
	})

	t.Run("wrong store", func(t *testing.T) {
		_, err := svc.Validate(ctx, "s2", "SAVE10", 4000)
		assert.True(t, apperr.Is(err, apperr.CodeCouponNotFound))
	})

	t.Run("inactive", func(t *testing.T) {
		_, err := svc.Validate(ctx, "s1", "OFF", 4000)
		assert.True(t, apperr.Is(err, apperr.CodeCouponInactive))
	})

	t.Run("expired", func(t *testing.T) {
		_, err := svc.Validate(ctx, "s1", "GONE", 4000)
		assert.True(t, apperr.Is(err, apperr.CodeCouponExpired))
	})

	t.Run("not yet valid", func(t *testing.T) {
		_, err := svc.Validate(ctx, "s1", "SOON", 4000)
		assert.True(t, apperr.Is(err, apperr.CodeCouponExpired))
	})

	t.Run("below minimum", func(t *testing.T) {
		_, err := svc.Validate(ctx, "s1", "BIG", 4000)
		assert.True(t, apperr.Is(err, apperr.CodeCouponBelowMinimum))
	})

	t.Run("usage limit is not validate's problem", func(t *testing.T) {
		// The limit check belongs to Consume; Validate must not pre-judge it.
		_, err := svc.Validate(ctx, "s1", "MAXED", 4000)
		require.NoError(t, err)
	})
}

func TestDisabledFlagsPersist(t *testing.T) {
	db := newTestDB(t)

	// Rows created with their flag off must come back off; a column default
	// must never overwrite an explicit false.
	seedCoupon(t, db, &model.Coupon{StoreID: "s1", Code: "OFF", DiscountType: model.DiscountFixed, Value: dec("500"), Active: false})
	seedTaxRule(t, db, &model.TaxRule{StoreID: "s1", Name: "off", RatePercent: dec("50"), Enabled: false})
	seedShippingMethod(t, db, &model.ShippingMethod{ID: "m1", StoreID: "s1", Name: "off", Type: model.ShippingFlatRate, FlatRate: 100, Enabled: false})

	var coupon model.Coupon
	require.NoError(t, db.Where("code = ?", "OFF").First(&coupon).Error)
	assert.False(t, coupon.Active)

	var rule model.TaxRule
	require.NoError(t, db.Where("name = ?", "off").First(&rule).Error)
	assert.False(t, rule.Enabled)

	var method model.ShippingMethod
	require.NoError(t, db.First(&method, "id = ?", "m1").Error)
	assert.False(t, method.Enabled)
}

func TestCouponDiscount(t *testing.T) {
	svc := NewCouponService(nil)

	t.Run("percent", func(t *testing.T) {
		coupon := &model.Coupon{DiscountType: model.DiscountPercent, Value: dec("10")}
		assert.Equal(t, int64(400), svc.Discount(coupon, 4000))
	})

	t.Run("percent capped by max discount", func(t *testing.T) {
		coupon := &model.Coupon{DiscountType: model.DiscountPercent, Value: dec("50"), MaxDiscountAmount: intPtr(1000)}
		assert.Equal(t, int64(1000), svc.Discount(coupon, 4000))
	})

	t.Run("fixed", func(t *testing.T) {
		coupon := &model.Coupon{DiscountType: model.DiscountFixed, Value: dec("500")}
		assert.Equal(t, int64(500), svc.Discount(coupon, 4000))
	})

	t.Run("fixed never exceeds subtotal", func(t *testing.T) {
		coupon := &model.Coupon{DiscountType: model.DiscountFixed, Value: dec("5000")}
		assert.Equal(t, int64(4000), svc.Discount(coupon, 4000))
	})

	t.Run("free shipping gives no item discount", func(t *testing.T) {
		coupon := &model.Coupon{DiscountType: model.DiscountFreeShipping, Value: dec("0")}
		assert.Equal(t, int64(0), svc.Discount(coupon, 4000))
	})
}

func TestCouponConsumeConcurrent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewCouponService(repository.NewCouponRepository(db))

	const limit = 3
	const attempts = 20

	seedCoupon(t, db, &model.Coupon{
		StoreID: "s1", Code: "LAST3", DiscountType: model.DiscountPercent,
		Value: dec("10"), Active: true, GlobalUsageLimit: int32Ptr(limit),
	})

	var wg sync.WaitGroup
	results := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := svc.Consume(ctx, "s1", "LAST3")
			require.NoError(t, err)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for ok := range results {
		if ok {
			succeeded++
		}
	}
	assert.Equal(t, limit, succeeded)

	var coupon model.Coupon
	require.NoError(t, db.Where("code = ?", "LAST3").First(&coupon).Error)
	assert.Equal(t, int32(limit), coupon.UsedCount)
}

func TestCouponConsumeUnlimited(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewCouponService(repository.NewCouponRepository(db))

	seedCoupon(t, db, &model.Coupon{
		StoreID: "s1", Code: "FOREVER", DiscountType: model.DiscountPercent,
		Value: dec("5"), Active: true,
	})

	for i := 0; i < 5; i++ {
		ok, err := svc.Consume(ctx, "s1", "FOREVER")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	var coupon model.Coupon
	require.NoError(t, db.Where("code = ?", "FOREVER").First(&coupon).Error)
	assert.Equal(t, int32(5), coupon.UsedCount)
}

func TestCouponRelease(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewCouponService(repository.NewCouponRepository(db))

	seedCoupon(t, db, &model.Coupon{
		StoreID: "s1", Code: "ONCE", DiscountType: model.DiscountPercent,
		Value: dec("5"), Active: true, UsedCount: 1,
	})

	require.NoError(t, svc.Release(ctx, "s1", "ONCE"))
	// A second release must floor at zero, not go negative.
	require.NoError(t, svc.Release(ctx, "s1", "ONCE"))

	var coupon model.Coupon
	require.NoError(t, db.Where("code = ?", "ONCE").First(&coupon).Error)
	assert.Equal(t, int32(0), coupon.UsedCount)
}
