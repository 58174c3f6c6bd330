package main // Entry point package

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/iliyamo/film-rental-store/internal/config"
    "github.com/iliyamo/film-rental-store/internal/database"
    "github.com/iliyamo/film-rental-store/internal/handler"
    "github.com/iliyamo/film-rental-store/internal/middleware"
    "github.com/iliyamo/film-rental-store/internal/queue"
    "github.com/iliyamo/film-rental-store/internal/repository"
    "github.com/iliyamo/film-rental-store/internal/router"
)

func main() {
    // Load .env in development; real environments set variables directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database open failed: %v", err)
    }
    defer db.Close()

    // Redis is optional; cache and rate limiting degrade to no-ops when
    // the client is nil.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; cache and rate limiting disabled")
    }

    customers := repository.NewCustomerRepo(db)
    films := repository.NewFilmRepo(db)
    actors := repository.NewActorRepo(db)
    rentals := repository.NewRentalRepo(db)
    reports := repository.NewReportRepo(db)
    admins := repository.NewAdminRepo(db)

    customerH := handler.NewCustomerHandler(customers)
    rentalH := handler.NewRentalHandler(rentals, films)
    filmH := handler.NewFilmHandler(films, actors)
    landingH := handler.NewLandingHandler(reports)
    adminH := handler.NewAdminHandler(cfg, admins)

    e := echo.New()
    e.Use(echomw.Recover())
    e.Use(echomw.CORS())
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterCustomers(e, customerH, rentalH)
    router.RegisterCatalogue(e, filmH, rentalH, landingH, cache)
    router.RegisterAdmin(e, adminH, cfg.JWTSecret)

    // Background consumer appends rental events to logs/rental.log and
    // reconnects on broker failure.
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
