package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/pharmacy-payments/docs"
	"github.com/anyulbade/pharmacy-payments/internal/auth"
	"github.com/anyulbade/pharmacy-payments/internal/cache"
	"github.com/anyulbade/pharmacy-payments/internal/config"
	"github.com/anyulbade/pharmacy-payments/internal/database"
	"github.com/anyulbade/pharmacy-payments/internal/handler"
	"github.com/anyulbade/pharmacy-payments/internal/middleware"
	"github.com/anyulbade/pharmacy-payments/internal/repository"
	"github.com/anyulbade/pharmacy-payments/internal/service"
	"github.com/anyulbade/pharmacy-payments/internal/templates"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		if err := database.SeedRegionalDefaults(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed regional defaults")
		}
	}

	var paramsCache cache.ParamsCache = cache.NopParamsCache{}
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, regional params cache disabled")
		} else {
			defer redisClient.Close()
			paramsCache = cache.NewRedisParamsCache(redisClient, cfg.ParamsCacheTTL)
		}
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(pool)
	if redisClient != nil {
		healthHandler.WithCache(handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}))
	}
	router.GET("/health", healthHandler.Health)

	handler.SetupSwagger(router, docs.SwaggerJSON)

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(tokens))
	handler.RegisterRoutes(api, buildHandlers(cfg, pool, paramsCache))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func buildHandlers(cfg *config.Config, pool *pgxpool.Pool, paramsCache cache.ParamsCache) handler.Handlers {
	settings := service.FormatSettings{Locale: cfg.Locale, DisplaySymbol: cfg.DisplayCurrencySymbol}

	paramsRepo := repository.NewRegionalParamsRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	accountRepo := repository.NewBankAccountRepository(pool)
	txnRepo := repository.NewBankTransactionRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	methodRepo := repository.NewPaymentMethodRepository(pool)

	regionalService := service.NewRegionalService(paramsRepo, paramsCache, cfg.DefaultCountryCode)
	paymentService := service.NewPaymentService(paymentRepo, txnRepo, regionalService, settings)
	bankService := service.NewBankService(accountRepo, txnRepo)
	scheduleService := service.NewScheduleService(scheduleRepo)
	methodService := service.NewMethodService(methodRepo, regionalService)
	dashboardService := service.NewDashboardService(paymentService, bankService, scheduleService,
		regionalService, settings, templates.Dashboard)

	return handler.Handlers{
		Regional:  handler.NewRegionalHandler(regionalService),
		Payments:  handler.NewPaymentHandler(paymentService),
		Bank:      handler.NewBankHandler(bankService),
		Schedules: handler.NewScheduleHandler(scheduleService),
		Methods:   handler.NewMethodHandler(methodService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}
}
