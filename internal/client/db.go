package client

import (
	"checkout-core/internal/model"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func InitMysqlClient(databaseURL string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		log.Fatal(err)
	}

	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Store{},
		&model.Currency{},
		&model.CatalogItem{},
		&model.Cart{},
		&model.CartItem{},
		&model.Coupon{},
		&model.TaxRule{},
		&model.ShippingMethod{},
		&model.PaymentMethodConfig{},
		&model.Order{},
		&model.OrderItem{},
		&model.PaymentTransaction{},
		&model.ProviderEvent{},
	)
}
