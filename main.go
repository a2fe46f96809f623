package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dopeeycode/brandfuse-api/billing"
	"github.com/dopeeycode/brandfuse-api/config"
	"github.com/dopeeycode/brandfuse-api/handler"
	appLogger "github.com/dopeeycode/brandfuse-api/logger"
	"github.com/dopeeycode/brandfuse-api/middleware"
	"github.com/dopeeycode/brandfuse-api/preview"
	"github.com/dopeeycode/brandfuse-api/probe"
	redisClient "github.com/dopeeycode/brandfuse-api/redis"
	"github.com/dopeeycode/brandfuse-api/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title BrandFuse API
// @version 1.0
// @description Brand availability report service: concurrently probes domain registries, social platforms, and website reachability, and unlocks the full report after payment.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3333
// @BasePath /
// @schemes http https

// @tag.name Reports
// @tag.description Starting reports and fetching paid full reports

// @tag.name Billing
// @tag.description Payment webhook from the billing processor

// @tag.name System
// @tag.description Health checks

func main() {
	// Initialize logger
	appLogger.Initialize()

	// Load configuration
	cfg := config.MustLoadConfig()
	log.Info().Msg("Configuration loaded successfully")

	// Initialize Redis client
	rdb := redisClient.NewClient(cfg.Redis)

	// Initialize report store (with optional in-process cache)
	reportStore, err := store.New(rdb, cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize report store")
	}

	// Initialize probe clients and the preview aggregator
	whois := probe.NewWhoisClient(cfg.Probes)
	social := probe.NewSocialClient(cfg.Probes)
	website := probe.NewWebsiteChecker(cfg.Probes)
	aggregator := preview.NewAggregator(whois, social, website, cfg.Probes.TLDs, social.Platforms())
	log.Info().
		Strs("tlds", cfg.Probes.TLDs).
		Msg("Probe clients initialized")

	// Initialize billing checkout client
	checkout := billing.NewCheckoutClient(cfg.Billing)
	if cfg.Billing.WebhookSecret == "" {
		log.Warn().Msg("No webhook secret configured, payment events will not be authenticated")
	}

	// Create handler with dependency injection
	reportHandler := handler.NewReportHandler(reportStore, aggregator, checkout, cfg)

	// Set up router
	r := mux.NewRouter()

	// Apply global middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	r.Use(middleware.CORS)
	r.Use(middleware.RequestLogger)
	r.Use(rateLimiter.Limit)

	// Register routes
	r.HandleFunc("/health", reportHandler.HealthCheck).Methods("GET")
	r.HandleFunc("/api/reports/start", reportHandler.CreateReport).Methods("POST")
	r.HandleFunc("/api/reports/{reportID}/qr", reportHandler.CheckoutQR).Methods("GET")
	r.HandleFunc("/api/reports/{accessToken}", reportHandler.GetReport).Methods("GET")
	r.HandleFunc("/api/stripe/webhook", reportHandler.PaymentWebhook).Methods("POST")

	// Swagger UI
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Configure HTTP server
	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("scheme", cfg.WebServer.Scheme).
			Msg("Starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Close store cache
	reportStore.Close()

	// Close Redis connection
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Redis connection")
	}

	log.Info().Msg("Server stopped gracefully")
}
