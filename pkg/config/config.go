package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDBName   string `envconfig:"MONGO_DB_NAME" default:"storefront"`
	PostgresHost  string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort  int    `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser  string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPass  string `envconfig:"POSTGRES_PASSWORD" default:"postgres"`
	PostgresDB    string `envconfig:"POSTGRES_DB" default:"storefront"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"./migrations"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	KafkaBrokers  string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	ProviderURL   string `envconfig:"PAYMENT_PROVIDER_URL" default:"https://checkout.example.com"`
	ProviderKey   string `envconfig:"PAYMENT_PROVIDER_KEY" default:"sk_test_local"`
	AdminUser     string `envconfig:"ADMIN_USERNAME" default:"Admin"`
	AdminPass     string `envconfig:"ADMIN_PASSWORD" default:"Admin"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
