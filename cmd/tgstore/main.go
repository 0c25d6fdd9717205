// tgstore - Telegram storefront service: order orchestration over a
// WooCommerce backend plus the payment gateway webhook.
// Designed for Cloud Run deployment with stateless operation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"tgstore/internal/bot"
	"tgstore/internal/cache"
	"tgstore/internal/config"
	"tgstore/internal/events"
	"tgstore/internal/handler"
	"tgstore/internal/order"
	"tgstore/internal/telegram"
	"tgstore/internal/woocommerce"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := initLogger()

	// Load configuration
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.String("store_url", cfg.Store.StoreURL),
		slog.Bool("redis_enabled", cfg.Store.RedisAddr != ""),
		slog.Bool("kafka_enabled", len(cfg.Store.KafkaBrokers) > 0),
	)

	// Commerce backend client
	backend, err := woocommerce.New(woocommerce.Config{
		StoreURL:       cfg.Store.StoreURL,
		ConsumerKey:    cfg.Store.ConsumerKey,
		ConsumerSecret: cfg.Store.ConsumerSecret,
	})
	if err != nil {
		return fmt.Errorf("creating backend client: %w", err)
	}

	// Payment gateway client
	gateway, err := telegram.New(telegram.Config{
		Token:         cfg.Store.BotToken,
		ProviderToken: cfg.Store.PaymentProviderToken,
	})
	if err != nil {
		return fmt.Errorf("creating gateway client: %w", err)
	}

	// Shipping-method cache: Redis when configured, in-process otherwise
	var shippingCache cache.Cache
	if cfg.Store.RedisAddr != "" {
		shippingCache = cache.NewRedis(cfg.Store.RedisAddr, "tgstore")
	} else {
		shippingCache = cache.NewMemory("tgstore")
	}

	// Order event feed: disabled unless brokers are configured
	publisher := events.NewNoop()
	if len(cfg.Store.KafkaBrokers) > 0 {
		publisher = events.NewKafka(cfg.Store.KafkaBrokers, cfg.Store.KafkaTopic)
	}
	defer publisher.Close()

	orders := order.NewService(backend, gateway, publisher, logger)
	storeBot := bot.New(backend, gateway, shippingCache, publisher, cfg.Store.PublicBaseURL, logger)
	h := handler.New(orders, backend, storeBot, cfg.Store.WebhookSecret, logger)

	// Register the webhook and chat menu button with the gateway before
	// accepting traffic. A failure here means no payment events would
	// arrive, so it is fatal.
	if err := gateway.SetWebhook(ctx, cfg.WebhookURL()); err != nil {
		return fmt.Errorf("registering webhook: %w", err)
	}
	if err := gateway.SetChatMenuButton(ctx, "Store", cfg.Store.PublicBaseURL); err != nil {
		logger.Warn("setting chat menu button failed", slog.String("error", err.Error()))
	}

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(h.Router(), "tgstore"),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Channel for server errors
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			slog.String("port", cfg.Port),
			slog.String("addr", server.Addr),
		)
		serverErr <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			// Force close if graceful shutdown fails
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// initLogger creates a structured logger configured for the environment.
// Production uses JSON format for GCP Cloud Logging compatibility.
// Development uses text format for readability.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Add source location in debug mode
		AddSource: level == slog.LevelDebug,
	}

	// JSON for production (Cloud Logging compatible), text for development
	if os.Getenv("ENVIRONMENT") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
