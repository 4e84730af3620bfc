package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/cinevault/movie-catalog/internal/config"
	"github.com/cinevault/movie-catalog/internal/database"
	"github.com/cinevault/movie-catalog/internal/handler"
	"github.com/cinevault/movie-catalog/internal/middleware"
	"github.com/cinevault/movie-catalog/internal/queue"
	"github.com/cinevault/movie-catalog/internal/repository"
	"github.com/cinevault/movie-catalog/internal/router"
	"github.com/cinevault/movie-catalog/internal/service"
	"github.com/cinevault/movie-catalog/internal/tmdb"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db, cfg.AdminEmail, cfg.AdminPass, cfg.AdminName, cfg.BcryptCost); err != nil {
		log.Fatalf("schema init failed: %v", err)
	}

	// Redis is optional; without it caching and rate limiting turn off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	lists := repository.NewListRepo(db)
	reviews := repository.NewReviewRepo(db)

	listSvc := service.NewListService(lists)
	reviewSvc := service.NewReviewService(reviews)
	importer := tmdb.NewImporter(tmdb.NewClient(cfg.TMDBAPIKey))

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.Register(e, router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users),
		Movies:  handler.NewMovieHandler(movies, importer),
		Lists:   handler.NewListHandler(listSvc),
		Reviews: handler.NewReviewHandler(reviewSvc),
		Users:   handler.NewUserHandler(cfg, users, lists),
	}, cfg.JWTSecret, cache)

	// Drain list/review activity events in the background.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
