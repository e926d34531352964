package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/entusanojuicio/storefront/internal/cache"
	"github.com/entusanojuicio/storefront/internal/events"
	"github.com/entusanojuicio/storefront/internal/gateway"
	h "github.com/entusanojuicio/storefront/internal/handler"
	"github.com/entusanojuicio/storefront/internal/repository"
	"github.com/entusanojuicio/storefront/internal/service"
	"github.com/entusanojuicio/storefront/pkg/config"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	// Catalog storage
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	productRepo := repository.NewMongoProductRepository(mongoDB)

	// Order storage + migrations
	creds := &repository.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPass,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsDir,
	}
	orderRepo, err := repository.NewPostgresRepository(creds)
	if err != nil {
		logger.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer orderRepo.Close()
	if errMigrate := orderRepo.RunMigrations(creds); errMigrate != nil {
		logger.Fatal("Failed to run migrations", zap.Error(errMigrate))
	}

	// Catalog cache
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	productCache := cache.NewRedisCache(redisClient)

	// Order events
	producer := events.NewProducer(strings.Split(cfg.KafkaBrokers, ",")...)
	defer producer.Close()

	// Kitchen feed: surface paid orders as they come in.
	consumer := events.NewConsumer(func(_ context.Context, event events.OrderPaidEvent) error {
		logger.Info("Order ready for the kitchen",
			zap.String("order_id", event.OrderID),
			zap.String("pickup_time", event.PickupTime),
			zap.Float64("total", event.Total))
		return nil
	}, strings.Split(cfg.KafkaBrokers, ",")...)
	defer consumer.Close()

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	go consumer.Run(consumerCtx)

	// Payment provider
	providerGateway := gateway.NewStripeGateway(cfg.ProviderURL, cfg.ProviderKey)

	productSvc := service.NewProductService(productRepo, productCache)
	orderSvc := service.NewOrderService(orderRepo, logger)
	checkoutSvc := service.NewCheckoutService(orderRepo, providerGateway, producer, logger)

	productsHandler := h.NewProductsHandler(productSvc, requestTimeout)
	ordersHandler := h.NewOrdersHandler(orderSvc, requestTimeout)
	checkoutHandler := h.NewCheckoutHandler(checkoutSvc, requestTimeout)
	adminHandler := h.NewAdminHandler(orderSvc, productSvc, cfg.AdminUser, cfg.AdminPass, requestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productsHandler.List)
			r.Post("/", productsHandler.Create)
			r.Get("/{product_id}", productsHandler.Get)
			r.Put("/{product_id}", productsHandler.Update)
			r.Delete("/{product_id}", productsHandler.Delete)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordersHandler.Create)
			r.Get("/", ordersHandler.List)
			r.Get("/{order_id}", ordersHandler.Get)
			r.Put("/{order_id}/status", ordersHandler.UpdateStatus)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/stripe", checkoutHandler.CreateStripe)
			r.Get("/status/{session_id}", checkoutHandler.Status)
		})
		r.Post("/webhook/stripe", checkoutHandler.Webhook)
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)
			r.Get("/stats", adminHandler.Stats)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Storefront API starting", zap.String("port", cfg.Port))
		if errServe := srv.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			logger.Fatal("Server error", zap.Error(errServe))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(errShutdown))
	}
	logger.Info("Server exited")
}
