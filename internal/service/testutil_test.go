package service

import (
	"checkout-core/internal/client"
	"checkout-core/internal/model"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named in-memory database so every pooled connection sees the same data.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite allows one writer; keep the pool at one connection so concurrent
	// test goroutines queue instead of erroring with a locked database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, client.Migrate(db))
	return db
}

func seedCoupon(t *testing.T, db *gorm.DB, coupon *model.Coupon) *model.Coupon {
	t.Helper()
	if coupon.ID == "" {
		coupon.ID = uuid.NewString()
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

func intPtr(v int64) *int64   { return &v }
func int32Ptr(v int32) *int32 { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedActiveCart(t *testing.T, db *gorm.DB, storeID, userID string, lines ...model.CartItem) *model.Cart {
	t.Helper()

	cart := &model.Cart{
		ID:          uuid.NewString(),
		StoreID:     storeID,
		UserID:      userID,
		Status:      model.CartActive,
		ActiveOwner: &userID,
	}
	require.NoError(t, db.Create(cart).Error)

	var total int64
	for i := range lines {
		lines[i].ID = uuid.NewString()
		lines[i].CartID = cart.ID
		if lines[i].CurrencyID == "" {
			lines[i].CurrencyID = "USD"
		}
		total += lines[i].UnitPrice * int64(lines[i].Quantity)
		require.NoError(t, db.Create(&lines[i]).Error)
	}
	require.NoError(t, db.Model(cart).Update("total", total).Error)

	return cart
}

func seedCurrency(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	require.NoError(t, db.Create(&model.Currency{ID: id, Symbol: "$"}).Error)
}
