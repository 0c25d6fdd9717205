// Package config handles loading and validation of service configuration.
// Supports both development (env vars) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Config holds all service configuration.
// Environment determines whether secrets load from env vars (development)
// or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string
	StoreID    string // Secret Manager secret name holding StoreConfig

	// Store-specific configuration (loaded from secrets)
	Store StoreConfig
}

// StoreConfig contains store-specific settings.
// In production, this is loaded from Secret Manager as JSON.
// In development, loaded from individual env vars or CONFIG_FILE.
type StoreConfig struct {
	// WooCommerce backend.
	StoreURL       string `json:"store_url"`
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`

	// Telegram gateway.
	BotToken             string `json:"bot_token"`
	PaymentProviderToken string `json:"payment_provider_token,omitempty"`
	WebhookSecret        string `json:"webhook_secret"`

	// PublicBaseURL is where the gateway reaches the webhook and where
	// the mini-app is served.
	PublicBaseURL string `json:"public_base_url"`

	// Optional infrastructure. Empty disables the feature.
	RedisAddr    string   `json:"redis_addr,omitempty"`
	KafkaBrokers []string `json:"kafka_brokers,omitempty"`
	KafkaTopic   string   `json:"kafka_topic,omitempty"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → ENV vars / Secret Manager.
// Validates all required fields and returns an error if any are missing.
func Load(ctx context.Context) (*Config, error) {
	// If CONFIG_FILE is set, load everything from the JSON file
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	cfg := &Config{
		Port:        envOrDefault("PORT", "8080"),
		Environment: envOrDefault("ENVIRONMENT", "development"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		GCPProject:  os.Getenv("GCP_PROJECT"),
		StoreID:     os.Getenv("STORE_ID"),
	}

	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		if cfg.StoreID == "" {
			return nil, fmt.Errorf("STORE_ID required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		err = cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading store config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Port        string      `json:"port"`
		Environment string      `json:"environment"`
		LogLevel    string      `json:"log_level"`
		Store       StoreConfig `json:"store"`
	}

	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Port:        withDefault(fileConfig.Port, "8080"),
		Environment: withDefault(fileConfig.Environment, "development"),
		LogLevel:    withDefault(fileConfig.LogLevel, "info"),
		Store:       fileConfig.Store,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// loadFromSecretManager fetches store config from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{store_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.StoreID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Store); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}

	return nil
}

// loadFromEnv reads store config from individual environment variables.
// Used in development mode for local testing.
func (c *Config) loadFromEnv() error {
	c.Store = StoreConfig{
		StoreURL:             os.Getenv("STORE_URL"),
		ConsumerKey:          os.Getenv("WOO_CONSUMER_KEY"),
		ConsumerSecret:       os.Getenv("WOO_CONSUMER_SECRET"),
		BotToken:             os.Getenv("TELEGRAM_BOT_TOKEN"),
		PaymentProviderToken: os.Getenv("TELEGRAM_PAYMENT_PROVIDER_TOKEN"),
		WebhookSecret:        os.Getenv("TELEGRAM_BOT_SECRET"),
		PublicBaseURL:        os.Getenv("PUBLIC_BASE_URL"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		KafkaTopic:           os.Getenv("KAFKA_TOPIC"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				c.Store.KafkaBrokers = append(c.Store.KafkaBrokers, broker)
			}
		}
	}

	return nil
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.Store.StoreURL == "" {
		return fmt.Errorf("store_url is required")
	}
	if _, err := url.Parse(c.Store.StoreURL); err != nil {
		return fmt.Errorf("invalid store_url: %w", err)
	}
	if c.Store.ConsumerKey == "" {
		return fmt.Errorf("consumer_key is required")
	}
	if c.Store.ConsumerSecret == "" {
		return fmt.Errorf("consumer_secret is required")
	}
	if c.Store.BotToken == "" {
		return fmt.Errorf("bot_token is required")
	}
	if c.Store.WebhookSecret == "" {
		return fmt.Errorf("webhook_secret is required")
	}
	if c.Store.PublicBaseURL == "" {
		return fmt.Errorf("public_base_url is required")
	}
	if len(c.Store.KafkaBrokers) > 0 && c.Store.KafkaTopic == "" {
		return fmt.Errorf("kafka_topic is required when kafka_brokers is set")
	}
	return nil
}

// WebhookURL is the full webhook endpoint registered with the gateway.
// The shared secret rides in the query string; the handler checks it on
// every delivery.
func (c *Config) WebhookURL() string {
	return fmt.Sprintf("%s/api/telegram/webhook?secret_hash=%s",
		strings.TrimSuffix(c.Store.PublicBaseURL, "/"), c.Store.WebhookSecret)
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
