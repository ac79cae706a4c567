package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/database"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/maintenance"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	restaurants := repository.NewRestaurantRepo(db)
	tables := repository.NewTableRepo(db)
	schedules := repository.NewScheduleRepo(db)
	blocks := repository.NewBlockRepo(db)
	reservations := repository.NewReservationRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	policy := booking.DefaultPolicy()
	policy.MaxPartySize = cfg.Booking.MaxPartySize
	policy.MaxTablesPerReservation = cfg.Booking.MaxTables
	policy.IncludeCanceledInCalendar = cfg.Booking.IncludeCanceled

	authH := handler.NewAuthHandler(cfg, users, tokens)
	ownerH := handler.NewOwnerHandler(restaurants, tables, schedules, blocks, reservations, policy)
	publicH := handler.NewPublicHandler(restaurants, tables, schedules, blocks, reservations, policy)

	e := echo.New()

	// Redis is optional: without it the server runs with rate limiting
	// and response caching disabled.
	var cacheMW echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			e.Use(middleware.NewTokenBucket(rlCfg, rdb))
		}
		cacheCfg := config.LoadCacheConfig()
		if cacheCfg.Enabled {
			cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
		}
	} else {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterOwner(e, ownerH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cacheMW)

	// Background consumer: reservation events -> logs/reservations.log.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation-consumer stopped: %v", err)
		}
	}()

	// Retention sweep for old canceled reservations.
	sweeper := maintenance.NewSweeper(reservations, tokens, cfg.Booking.SweepInterval, cfg.Booking.SweepRetention)
	go sweeper.Run(context.Background())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
