package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/pasch/receivables-engine/internal/config"
	"github.com/pasch/receivables-engine/internal/domain"
	"github.com/pasch/receivables-engine/internal/repository"
	"github.com/pasch/receivables-engine/internal/service"
)

func main() {
	log.Println("Starting overdue snapshot scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	titleRepo, db, err := initTitleRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize title repository: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		// Re-reading through the cache refreshes the snapshot the server
		// serves from, so the first request after the job runs is warm.
		titleRepo = repository.NewCachedTitleRepository(titleRepo, redisClient, cfg.GetCacheTTL())
	}

	titleService := service.NewTitleService(titleRepo, repository.SystemClock{})

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	_, err = c.AddFunc(cfg.Scheduler.Spec, func() {
		runOverdueSnapshot(titleService)
	})
	if err != nil {
		log.Fatalf("Error scheduling overdue snapshot job: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
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

// runOverdueSnapshot lists every overdue title and logs a collection summary.
func runOverdueSnapshot(titleService *service.TitleService) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results, err := titleService.ListOverdue(ctx, &domain.ListOverdueQuery{})
	if err != nil {
		log.Printf("Overdue snapshot job failed: %v", err)
		return
	}

	var totalUpdated decimal.Decimal
	maxDaysLate := 0
	for _, result := range results {
		totalUpdated = totalUpdated.Add(result.UpdatedAmount)
		if result.DaysLate > maxDaysLate {
			maxDaysLate = result.DaysLate
		}
	}

	log.Printf("Overdue snapshot: %d titles, total updated amount %s, worst lateness %d days",
		len(results), totalUpdated.StringFixed(2), maxDaysLate)
}
