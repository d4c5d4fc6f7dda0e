package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/pasch/receivables-engine/internal/config"
	"github.com/pasch/receivables-engine/internal/handler"
	"github.com/pasch/receivables-engine/internal/repository"
	"github.com/pasch/receivables-engine/internal/service"
	"github.com/pasch/receivables-engine/pkg/response"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the title source per the configured storage driver
	titleRepo, db, err := initTitleRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize title repository: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	// Optional Redis read-through cache
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient = initRedis(cfg)
		defer redisClient.Close()
		titleRepo = repository.NewCachedTitleRepository(titleRepo, redisClient, cfg.GetCacheTTL())
	}

	// Initialize service and handlers
	titleService := service.NewTitleService(titleRepo, repository.SystemClock{})
	titleHandler := handler.NewTitleHandler(titleService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(titleHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initTitleRepository(cfg *config.Config) (repository.TitleRepository, *sqlx.DB, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewTitleRepository(db), db, nil
	default:
		return repository.NewJSONTitleRepository(cfg.Storage.TitlesPath), nil, nil
	}
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(titleHandler *handler.TitleHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.RequestIDMiddleware)
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/titles/overdue", titleHandler.ListOverdue).Methods("GET")

	return router
}
