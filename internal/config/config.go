package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	JWTSecret string `env:"JWT_SECRET"`

	Card  CardProvider `envPrefix:"CARD_"`
	Kafka Kafka        `envPrefix:"KAFKA_"`
}

// CardProvider holds the platform-level endpoint for the card payment
// provider; per-store credentials live in payment_method_configs.
type CardProvider struct {
	BaseApiURL string        `env:"BASE_API_URL"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type Kafka struct {
	Brokers     string `env:"BROKERS"` // comma-separated; empty disables publishing
	OrdersTopic string `env:"ORDERS_TOPIC" envDefault:"orders.created"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
