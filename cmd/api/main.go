package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"promptcanvas/internal/client"
	"promptcanvas/internal/config"
	"promptcanvas/internal/logger"
	"promptcanvas/internal/repository"
	"promptcanvas/internal/server"
	"promptcanvas/internal/service"
	"promptcanvas/internal/worker"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const outboxInterval = 30 * time.Second

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

	log := logger.New(cfg.Log)

	db, err := client.InitSqliteClient(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("init database")
	}

	imageClient := client.NewImageClient(&cfg.OpenAI)
	stripeClient := client.NewStripeClient(&cfg.Stripe)
	fulfillClient := client.NewFulfillmentClient(&cfg.Printful)

	intentRepo := repository.NewFulfillmentIntentRepository(db)
	eventRepo := repository.NewWebhookEventRepository(db)

	generationService := service.NewGenerationService(
		imageClient,
		service.NewRandomModifierPicker(),
		log,
	)
	checkoutService := service.NewCheckoutService(
		stripeClient,
		cfg.BaseURL,
		cfg.Product,
		log,
	)
	fulfillmentService := service.NewFulfillmentService(
		stripeClient,
		fulfillClient,
		intentRepo,
		eventRepo,
		cfg.Stripe.WebhookSecret,
		cfg.Printful.VariantID,
		log,
	)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	outbox := worker.NewOutboxWorker(intentRepo, fulfillmentService, outboxInterval, log)
	go outbox.Run(workerCtx)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(generationService, checkoutService, fulfillmentService, cfg.HTTP.WebDir, log)

	log.Info().Str("addr", serverAddr).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info().Msg("signal received, starting graceful shutdown")

	stopWorker()

	if err := srv.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("HTTP server shutdown error")
	}
}
