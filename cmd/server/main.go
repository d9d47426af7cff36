package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/chanaka-devx/L-essence/internal/config"
	"github.com/chanaka-devx/L-essence/internal/database"
	"github.com/chanaka-devx/L-essence/internal/handler"
	"github.com/chanaka-devx/L-essence/internal/middleware"
	"github.com/chanaka-devx/L-essence/internal/queue"
	"github.com/chanaka-devx/L-essence/internal/repository"
	"github.com/chanaka-devx/L-essence/internal/router"
	"github.com/chanaka-devx/L-essence/internal/service"
	"github.com/chanaka-devx/L-essence/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environment wins

	cfg := config.Load()                                           // Load environment config
	log := utils.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout) // Structured logger shared by every layer

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.WithError(err).Fatal("schema bootstrap failed")
		}
	}

	rdb := config.NewRedisClient(log) // nil when Redis is disabled or unreachable
	if rdb != nil {
		defer rdb.Close()
	}

	// Repositories
	users := repository.NewUserRepo(db)
	tables := repository.NewTableRepo(db)
	timeslots := repository.NewTimeslotRepo(db)
	bookings := repository.NewBookingRepo(db)

	// Booking events
	evCfg := config.LoadEventsConfig()
	var events service.EventPublisher = service.NoopPublisher{}
	if evCfg.Enabled {
		pub := service.NewAMQPPublisher(evCfg.URL, evCfg.Queue)
		defer pub.Close()
		dispatcher := service.NewEventDispatcher(pub, evCfg.Buffer, log)
		defer func() {
			drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := dispatcher.Close(drainCtx); err != nil {
				log.WithError(err).Warn("booking events not drained")
			}
		}()
		events = dispatcher
		go runConsumer(ctx, evCfg, log)
	}

	// Services
	resolver := service.NewAvailabilityResolver(tables, timeslots, log)
	manager := service.NewBookingManager(bookings, events, log)
	stats := service.NewStatsService(users, tables, timeslots, bookings, log)

	// HTTP
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: func() string { return uuid.NewString() }}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log)

	bookingHandler := handler.NewBookingHandler(manager, log)
	router.RegisterRoutes(e, db)
	router.RegisterPublic(e, handler.NewPublicHandler(resolver, log), cache)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, log), cfg.JWTSecret, limit)
	router.RegisterCustomer(e, bookingHandler, cfg.JWTSecret, limit)
	router.RegisterAdmin(e, bookingHandler, handler.NewAdminHandler(stats, log), cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// runConsumer keeps the booking log consumer alive until ctx ends.
func runConsumer(ctx context.Context, cfg config.EventsConfig, log logrus.FieldLogger) {
	err := queue.StartBookingConsumer(ctx, cfg, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("booking consumer exited")
	}
}
