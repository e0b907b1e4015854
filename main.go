package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"courtfinder/config"
	"courtfinder/jobs"
	"courtfinder/locks"
	"courtfinder/metrics"
	"courtfinder/middleware"
	"courtfinder/repository"
	"courtfinder/repository/memory"
	"courtfinder/routes"
	"courtfinder/services"
	"courtfinder/services/logger"
	"courtfinder/services/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewDefaultLogger(logger.ParseLevel(cfg.LogLevel))
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store repository.Store
	switch cfg.Store {
	case config.StoreMemory:
		store = memory.NewStore()
		appLogger.Info("Using in-memory store")
	default:
		db, err := config.ConnectDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to db: %v", err)
		}
		store = repository.NewGormStore(db)
	}

	var ratingCache services.RatingCache
	rdb, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		appLogger.Error("Không thể kết nối Redis, tắt cache điểm sân: %v", err)
	} else {
		defer rdb.Close()
		ratingCache = services.NewRedisRatingCache(rdb, 0)
	}

	router, m, c := config.InitApp(cfg)
	registry := metrics.NewRegistry()
	appMetrics := metrics.New(registry)
	guard := locks.NewStriped(cfg.LockStripes)

	overpass := services.NewOverpassClient(cfg.OverpassURL, &http.Client{Timeout: cfg.OverpassTimeout}, appMetrics)
	courtService := services.NewCourtService(services.CourtServiceOptions{
		Store:   store,
		Fetcher: overpass,
		Logger:  appLogger,
	})
	voteService := services.NewVoteService(services.VoteServiceOptions{
		Store:    store,
		Guard:    guard,
		Logger:   appLogger,
		Metrics:  appMetrics,
		Notifier: notification.NewMelodyService(m),
	})
	reviewService := services.NewReviewService(services.ReviewServiceOptions{
		Store:   store,
		Guard:   guard,
		Cache:   ratingCache,
		Courts:  courtService,
		Logger:  appLogger,
		Metrics: appMetrics,
	})
	userService := services.NewUserService(services.UserServiceOptions{
		Store:  store,
		Logger: appLogger,
	})

	if err := jobs.InitCronJobs(c, cfg.ReconcileSchedule, voteService, appLogger); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}
	defer c.Stop()

	config.InitWebSocket(router, m)

	routes.SetupRoutes(router, routes.Deps{
		Votes:       voteService,
		Reviews:     reviewService,
		Courts:      courtService,
		Users:       userService,
		JWTSecret:   []byte(cfg.JWTSecret),
		VoteLimiter: middleware.NewRateLimiter(cfg.VoteRatePerSecond, cfg.VoteRateBurst),
		Registry:    registry,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("Server starting on port " + cfg.Port + "...")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	_ = m.Close()
}
