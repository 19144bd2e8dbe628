/**
 * @description
 * This is the main entry point for the Tikkie Iran demo backend. It is
 * responsible for initializing all components of the service: configuration,
 * the JSON snapshot store, the mock Shetab gateway, the mock SMS dispatcher
 * with its optional RabbitMQ fan-out, the optional Redis rate limiter, the
 * core application service, and the HTTP server.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/joho/godotenv: Optional .env loading for local runs.
 * - github.com/redis/go-redis/v9: Optional distributed rate limiting.
 * - internal/api, internal/app, internal/config, internal/store: Internal packages for the service.
 * - pkg/rabbitmq, pkg/shetab, pkg/sms: The event producer and mock providers.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/tikkieiran/backend/internal/api"
	"github.com/tikkieiran/backend/internal/app"
	"github.com/tikkieiran/backend/internal/config"
	"github.com/tikkieiran/backend/internal/store"
	"github.com/tikkieiran/backend/pkg/rabbitmq"
	"github.com/tikkieiran/backend/pkg/shetab"
	"github.com/tikkieiran/backend/pkg/sms"
)

func main() {
	// Load an optional .env for local development before reading the environment.
	if err := godotenv.Load(); err == nil {
		log.Println("level=info component=bootstrap msg=\"loaded .env file\"")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}

	log.Printf("level=info component=bootstrap msg=\"starting tikkie-iran backend\" port=%s data_file=%s", cfg.ServerPort, cfg.DataFile)

	// Initialize the data access layer (repository).
	repository, err := store.NewJSONRepository(cfg.DataFile)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"store init failed\" err=%v", err)
	}

	// Initialize the mock providers.
	gateway := shetab.NewMockGateway(
		time.Duration(cfg.MockPaymentDelayMs)*time.Millisecond,
		cfg.MockPaymentSuccessRate,
	)
	notifier := sms.NewMockSMS(time.Duration(cfg.MockSMSDelayMs) * time.Millisecond)

	// Optional RabbitMQ fan-out for dispatched notifications. The demo runs
	// fine without a broker.
	if strings.TrimSpace(cfg.RabbitMQURL) != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; notification events disabled\" err=%v", err)
		} else {
			defer producer.Close()
			notifier.SetEventPublisher(producer, cfg.NotificationExchange)
			log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
		}
	}

	// Initialize the core application service with its dependencies.
	service := app.NewService(repository, gateway, notifier, cfg.RequestExpiryDays)

	// Optional Redis-backed throttle on verification code sends.
	if cfg.SendCodeRateLimit > 0 && cfg.RedisURL != "" {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; send-code rate limiting disabled\" err=%v", parseErr)
		} else {
			redisClient := redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelPing()
			if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
				log.Printf("level=warn component=bootstrap msg=\"redis ping failed; send-code rate limiting disabled\" err=%v", pingErr)
				redisClient.Close()
			} else {
				defer redisClient.Close()
				service.SetRateLimiter(app.NewRedisRateLimiter(redisClient, cfg.RedisRateLimitPrefix), cfg.SendCodeRateLimit)
				log.Println("level=info component=bootstrap msg=\"redis connected\"")
			}
		}
	}

	// Seed the demo dataset on a fresh store so the app is usable immediately.
	snapshot, err := repository.Snapshot(context.Background())
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"store snapshot failed\" err=%v", err)
	}
	if len(snapshot.Users) == 0 {
		if _, err := service.ResetDemoData(context.Background()); err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"demo seed failed\" err=%v", err)
		}
	}

	// Initialize the API layer.
	tokenManager := api.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	handlers := api.NewHandlers(service, tokenManager)
	router := api.Routes(handlers, tokenManager)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}
