package main

import (
	"checkout-core/internal/client"
	"checkout-core/internal/config"
	"checkout-core/internal/events"
	"checkout-core/internal/gateway"
	"checkout-core/internal/metrics"
	"checkout-core/internal/repository"
	"checkout-core/internal/server"
	"checkout-core/internal/service"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitMysqlClient(cfg.DatabaseURL)
	cardClient := client.NewCardClient(&cfg.Card)

	// Gateway registry is assembled once here; a duplicate code means the
	// binary is misbuilt and must not come up.
	registry, err := gateway.NewRegistry(
		gateway.NewCardAdapter(cardClient),
		gateway.NewCodAdapter(),
	)
	if err != nil {
		log.Fatal("payment gateway registry: ", err)
	}

	cartRepo := repository.NewCartRepository(db)
	itemRepo := repository.NewCatalogItemRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	taxRuleRepo := repository.NewTaxRuleRepository(db)
	shippingRepo := repository.NewShippingMethodRepository(db)
	configRepo := repository.NewPaymentConfigRepository(db)
	currencyRepo := repository.NewCurrencyRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	eventRepo := repository.NewProviderEventRepository(db)

	if cfg.Environment.Name == "development" {
		if err := itemRepo.Seed(context.Background()); err != nil {
			log.Println("seed catalog:", err)
		}
	}

	m := metrics.New()
	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)

	couponService := service.NewCouponService(couponRepo)
	taxService := service.NewTaxService(taxRuleRepo)
	shippingService := service.NewShippingService(shippingRepo)
	cartService := service.NewCartService(db, cartRepo, itemRepo)
	paymentService := service.NewPaymentService(db, transactionRepo, orderRepo)
	webhookService := service.NewWebhookService(eventRepo, paymentService, m)
	checkoutService := service.NewCheckoutService(
		db, registry,
		cartRepo, orderRepo, configRepo, currencyRepo,
		couponService, taxService, shippingService, paymentService,
		publisher, m,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(cartService, checkoutService, paymentService, webhookService, m, cfg.JWTSecret)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
