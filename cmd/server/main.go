package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pcordova/dvd-rental-api/internal/config"
	"github.com/pcordova/dvd-rental-api/internal/database"
	"github.com/pcordova/dvd-rental-api/internal/handler"
	"github.com/pcordova/dvd-rental-api/internal/metrics"
	"github.com/pcordova/dvd-rental-api/internal/middleware"
	"github.com/pcordova/dvd-rental-api/internal/queue"
	"github.com/pcordova/dvd-rental-api/internal/repository"
	"github.com/pcordova/dvd-rental-api/internal/router"
	queue_publisher "github.com/pcordova/dvd-rental-api/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment

	cfg := config.Load()

	db, err := database.Open(database.Config{
		User:         cfg.DBUser,
		Pass:         cfg.DBPass,
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		Name:         cfg.DBName,
		MaxConns:     cfg.DBMaxConns,
		ConnLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if cfg.MigrateOnStart {
		if err := database.RunMigrations(db, cfg.DBName); err != nil {
			log.Fatalf("migrations: %v", err)
		}
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limiting disabled")
	}

	reg := prometheus.NewRegistry()
	col := metrics.NewCollector(reg)

	staffRepo := repository.NewStaffRepo(db)
	filmRepo := repository.NewFilmRepo(db)
	actorRepo := repository.NewActorRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	rentalRepo := repository.NewRentalRepo(db)

	authH := handler.NewAuthHandler(cfg, staffRepo)
	filmH := handler.NewFilmHandler(filmRepo)
	actorH := handler.NewActorHandler(actorRepo)
	customerH := handler.NewCustomerHandler(customerRepo, rentalRepo, col, queue_publisher.PublishRentalEvent)
	rentalH := handler.NewRentalHandler(rentalRepo, col, queue_publisher.PublishRentalEvent)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Metrics(col))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	gate := middleware.StaffAuth(cfg.JWTSecret, staffRepo)

	router.RegisterRoutes(e, reg)
	router.RegisterAuth(e, authH)
	router.RegisterCatalog(e, filmH, actorH, cache)
	router.RegisterCustomers(e, customerH, gate)
	router.RegisterRentals(e, rentalH, gate)

	// Background consumer mirrors rental events into logs/rental.log.
	go func() {
		if err := queue.StartRentalConsumer(); err != nil {
			log.Printf("rental consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
