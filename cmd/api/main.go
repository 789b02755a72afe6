package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/glowdesk/inventory-service/config"
	"github.com/glowdesk/inventory-service/internal/auth"
	"github.com/glowdesk/inventory-service/internal/middleware"
	"github.com/glowdesk/inventory-service/pkg/broker"
	"github.com/glowdesk/inventory-service/pkg/cache"
	"github.com/glowdesk/inventory-service/pkg/logger"
	"github.com/glowdesk/inventory-service/pkg/postgres"
	"github.com/glowdesk/inventory-service/pkg/search"

	invH "github.com/glowdesk/inventory-service/internal/inventory/handler"
	invListenerPkg "github.com/glowdesk/inventory-service/internal/inventory/listener"
	invRepoPkg "github.com/glowdesk/inventory-service/internal/inventory/repository"
	invUCPkg "github.com/glowdesk/inventory-service/internal/inventory/usecase"

	prodH "github.com/glowdesk/inventory-service/internal/product/handler"
	prodRepoPkg "github.com/glowdesk/inventory-service/internal/product/repository"
	prodUCPkg "github.com/glowdesk/inventory-service/internal/product/usecase"

	supH "github.com/glowdesk/inventory-service/internal/supplier/handler"
	supRepoPkg "github.com/glowdesk/inventory-service/internal/supplier/repository"
	supUCPkg "github.com/glowdesk/inventory-service/internal/supplier/usecase"

	locH "github.com/glowdesk/inventory-service/internal/location/handler"
	locRepoPkg "github.com/glowdesk/inventory-service/internal/location/repository"
	locUCPkg "github.com/glowdesk/inventory-service/internal/location/usecase"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	appLogger := logger.New(&logger.Config{
		IsDevelopment:     cfg.Server.AppEnv == "development",
		Level:             cfg.Logger.Level,
		Encoding:          cfg.Logger.Encoding,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	db, err := postgres.New(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL", zap.String("db_name", cfg.Postgres.DBName))

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		// The service runs without search; list queries fall back to SQL.
		appLogger.Warn("Could not connect to Elasticsearch", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	invRepo := invRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	supRepo := supRepoPkg.NewPGRepository(db)
	locRepo := locRepoPkg.NewPGRepository(db)

	invUC := invUCPkg.NewInventoryUseCase(invRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, redisClient, esClient, appLogger)
	supUC := supUCPkg.NewSupplierUseCase(supRepo, appLogger)
	locUC := locUCPkg.NewLocationUseCase(locRepo, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	invListener := invListenerPkg.NewInventoryListener(kafkaConsumer, invUC, appLogger)
	go invListener.Start(ctx)

	opts := middleware.Options{
		Version:     cfg.API.Version,
		LogResults:  true,
		Development: cfg.Server.AppEnv == "development",
		Logger:      appLogger,
	}

	window, err := time.ParseDuration(cfg.API.RateLimitWindow)
	if err != nil {
		window = time.Hour
	}
	limiter := &middleware.RedisRateLimiter{
		Client: redisClient,
		Limit:  cfg.API.RateLimitRequests,
		Window: window,
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RateLimit(limiter, cfg.API.RateLimitRequests, cfg.API.RateLimitWindow, opts))

	r.Get("/health", middleware.HealthCheck(map[string]func(ctx context.Context) error{
		"postgres": func(ctx context.Context) error { return db.PingContext(ctx) },
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx) },
	}, opts))

	r.Route("/api/v1", func(r chi.Router) {
		invH.NewHandler(invUC, auth.BearerStub, opts).RegisterRoutes(r)
		prodH.NewHandler(prodUC, auth.BearerStub, opts).RegisterRoutes(r)
		supH.NewHandler(supUC, auth.BearerStub, opts).RegisterRoutes(r)
		locH.NewHandler(locUC, auth.BearerStub, opts).RegisterRoutes(r)
	})

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
