package service

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/model"
	"checkout-core/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCartService(db *gorm.DB) CartService {
	return NewCartService(db, repository.NewCartRepository(db), repository.NewCatalogItemRepository(db))
}

func seedCatalogItem(t *testing.T, db *gorm.DB, item *model.CatalogItem) {
	t.Helper()
	require.NoError(t, db.Create(item).Error)
}

func TestCartAddItem(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newCartService(db)

	seedCatalogItem(t, db, &model.CatalogItem{
		ID: "mug", StoreID: "s1", Name: "Mug", Price: 1200, CurrencyID: "USD", WeightKg: dec("0.35"), Available: true,
	})

	cart, err := svc.AddItem(ctx, "s1", "u1", "mug", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, model.CartActive, cart.Status)
	assert.Equal(t, int64(1200), cart.Items[0].UnitPrice)
	assert.Equal(t, int32(2), cart.Items[0].Quantity)
	assert.Equal(t, int64(2400), cart.Total)

	t.Run("adding the same item again merges the line", func(t *testing.T) {
		cart, err := svc.AddItem(ctx, "s1", "u1", "mug", 3)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, int32(5), cart.Items[0].Quantity)
		assert.Equal(t, int64(6000), cart.Total)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := svc.AddItem(ctx, "s1", "u1", "ghost", 1)
		assert.True(t, apperr.Is(err, apperr.CodeItemNotFound))
	})

	t.Run("item from another store is invisible", func(t *testing.T) {
		_, err := svc.AddItem(ctx, "s2", "u1", "mug", 1)
		assert.True(t, apperr.Is(err, apperr.CodeItemNotFound))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := svc.AddItem(ctx, "s1", "u1", "mug", 0)
		assert.True(t, apperr.Is(err, apperr.CodeValidation))
	})
}

func TestCartPriceSnapshot(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newCartService(db)

	seedCatalogItem(t, db, &model.CatalogItem{
		ID: "mug", StoreID: "s1", Name: "Mug", Price: 1200, CurrencyID: "USD", WeightKg: dec("0.35"), Available: true,
	})

	_, err := svc.AddItem(ctx, "s1", "u1", "mug", 1)
	require.NoError(t, err)

	// The store raises the price after the line was added.
	require.NoError(t, db.Model(&model.CatalogItem{}).Where("id = ?", "mug").Update("price", 9900).Error)

	cart, err := svc.GetCart(ctx, "s1", "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(1200), cart.Items[0].UnitPrice)
	assert.Equal(t, int64(1200), cart.Total)
}

func TestCartUpdateItem(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newCartService(db)

	seedCatalogItem(t, db, &model.CatalogItem{
		ID: "mug", StoreID: "s1", Name: "Mug", Price: 1200, CurrencyID: "USD", WeightKg: dec("0.35"), Available: true,
	})

	cart, err := svc.AddItem(ctx, "s1", "u1", "mug", 2)
	require.NoError(t, err)
	lineID := cart.Items[0].ID

	cart, err = svc.UpdateItem(ctx, "s1", "u1", lineID, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(5), cart.Items[0].Quantity)
	assert.Equal(t, int64(6000), cart.Total)

	t.Run("zero quantity removes the line", func(t *testing.T) {
		cart, err := svc.UpdateItem(ctx, "s1", "u1", lineID, 0)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Equal(t, int64(0), cart.Total)
	})

	t.Run("unknown line", func(t *testing.T) {
		_, err := svc.UpdateItem(ctx, "s1", "u1", "nope", 2)
		assert.True(t, apperr.Is(err, apperr.CodeItemNotFound))
	})
}

func TestCartRemoveItem(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newCartService(db)

	seedCatalogItem(t, db, &model.CatalogItem{
		ID: "mug", StoreID: "s1", Name: "Mug", Price: 1200, CurrencyID: "USD", WeightKg: dec("0.35"), Available: true,
	})
	seedCatalogItem(t, db, &model.CatalogItem{
		ID: "tee", StoreID: "s1", Name: "Tee", Price: 2000, CurrencyID: "USD", WeightKg: dec("0.2"), Available: true,
	})

	_, err := svc.AddItem(ctx, "s1", "u1", "mug", 1)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, "s1", "u1", "tee", 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	var mugLine string
	for _, line := range cart.Items {
		if line.ItemID == "mug" {
			mugLine = line.ID
		}
	}

	cart, err = svc.RemoveItem(ctx, "s1", "u1", mugLine)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "tee", cart.Items[0].ItemID)
	assert.Equal(t, int64(2000), cart.Total)

	t.Run("no active cart", func(t *testing.T) {
		_, err := svc.RemoveItem(ctx, "s1", "nobody", "anything")
		assert.True(t, apperr.Is(err, apperr.CodeItemNotFound))
	})
}

func TestOneActiveCartPerBuyer(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newCartService(db)

	first := seedActiveCart(t, db, "s1", "u1")

	// A second ACTIVE cart for the same buyer must be refused by the store
	// itself, not just by application logic.
	owner := "u1"
	dup := &model.Cart{ID: "dup", StoreID: "s1", UserID: "u1", Status: model.CartActive, ActiveOwner: &owner}
	assert.Error(t, db.Create(dup).Error)

	// Same buyer in another store is unrelated.
	other := &model.Cart{ID: "other", StoreID: "s2", UserID: "u1", Status: model.CartActive, ActiveOwner: &owner}
	assert.NoError(t, db.Create(other).Error)

	// Conversion frees the slot for the next cart.
	converted, err := repository.NewCartRepository(db).MarkConverted(ctx, db, first.ID)
	require.NoError(t, err)
	require.True(t, converted)

	seedCatalogItem(t, db, &model.CatalogItem{
		ID: "mug", StoreID: "s1", Name: "Mug", Price: 1200, CurrencyID: "USD", WeightKg: dec("0.35"), Available: true,
	})
	cart, err := svc.AddItem(ctx, "s1", "u1", "mug", 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, cart.ID)
	assert.Equal(t, model.CartActive, cart.Status)
}

func TestGetCartWithoutOne(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newCartService(db)

	cart, err := svc.GetCart(ctx, "s1", "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.ID)
	assert.Empty(t, cart.Items)
	assert.Equal(t, model.CartActive, cart.Status)
}
