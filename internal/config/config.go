// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL" envDefault:"floatchat.db"`
	APIPort     string `env:"API_PORT" envDefault:"8000"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`

	// Empty RabbitMQURL runs the ingest queue in process.
	RabbitMQURL       string `env:"RABBITMQ_URL"`
	WorkerConcurrency int    `env:"CONCURRENCY" envDefault:"4"`

	StorageBackend    string `env:"STORAGE_BACKEND" envDefault:"local"`
	LocalStorageDir   string `env:"LOCAL_STORAGE_DIR" envDefault:"./data"`
	DataBucketName    string `env:"DATA_BUCKET_NAME" envDefault:"argo-data"`
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`

	// Empty OpenAIAPIKey disables semantic matching and answer polishing.
	OpenAIAPIKey   string `env:"OPENAI_API_KEY"`
	OpenAIModel    string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	// A configured match service takes precedence over local matching.
	MatchServiceURL string `env:"MATCH_SERVICE_URL"`
	MatchServiceKey string `env:"MATCH_SERVICE_KEY"`

	ChatRatePerSecond float64 `env:"CHAT_RATE_LIMIT" envDefault:"5"`
	ChatRateBurst     int     `env:"CHAT_RATE_BURST" envDefault:"10"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config from environment: %w", err)
	}

	if cfg.StorageBackend != "local" && cfg.StorageBackend != "s3" {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND '%s', expected 'local' or 's3'", cfg.StorageBackend)
	}

	return &cfg, nil
}
