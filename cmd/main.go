package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicalfresh/internal/caching"
	"clinicalfresh/internal/config"
	"clinicalfresh/internal/handlers"
	"clinicalfresh/internal/jobs"
	"clinicalfresh/internal/jobs/background"
	"clinicalfresh/internal/middleware"
	"clinicalfresh/internal/repositories"
	"clinicalfresh/internal/services"
	"clinicalfresh/internal/storage"
	"clinicalfresh/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const version = "1.0.0"

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	setupLogger(cfg)
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.ClosePool(pool)

	rdb, err := caching.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}()
	cacheSvc := caching.NewRedisCacheService(rdb)

	minioClient, err := storage.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure object storage")
	}
	objectStorage := storage.NewMinioStorage(minioClient)
	if err := objectStorage.EnsureBucketExists(ctx, cfg.DocumentsBucket); err != nil {
		// Uploads fail until the bucket exists; the rest of the API still works.
		log.Error().Err(err).Str("bucket", cfg.DocumentsBucket).Msg("documents bucket unavailable")
	}

	jwtKeys, err := middleware.NewJWTKeys(cfg.JWTSecret, cfg.JWKSURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure token verification")
	}
	defer jwtKeys.Close()

	// Repositories
	treeRepo := repositories.NewTreeNodeRepo(pool)
	recipeRepo := repositories.NewRecipeRepo(pool)
	priceRepo := repositories.NewPriceHistoryRepo(pool)
	employeeRepo := repositories.NewEmployeeRepo(pool)
	notificationRepo := repositories.NewNotificationRepo(pool)
	auditLogsRepo := repositories.NewAuditLogsRepo(pool)
	stockRepo := repositories.NewStockRepo(pool)
	profileRepo := repositories.NewProfileRepo(pool)

	// Services
	auditSvc := services.NewAuditLogsService(auditLogsRepo)
	rbacSvc := services.NewRBACService(profileRepo)
	treeSvc := services.NewTreeService(treeRepo, auditSvc)
	priceSvc := services.NewPriceService(priceRepo)
	recipeSvc := services.NewRecipeService(recipeRepo, auditSvc)
	recipeCostSvc := services.NewRecipeCostService(recipeRepo, priceSvc)
	employeeSvc := services.NewEmployeeService(employeeRepo, objectStorage, cacheSvc, auditSvc, cfg.DocumentsBucket)
	notificationSvc := services.NewNotificationService(notificationRepo, cacheSvc)
	stockSvc := services.NewStockService(stockRepo, auditSvc)

	// Background jobs
	scheduler, err := background.NewJobScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	lowStock := jobs.NewLowStockAlerter(stockSvc, notificationSvc, cacheSvc)
	recalc := jobs.NewRecipeRecalculator(recipeCostSvc)
	if err := errors.Join(
		scheduler.AddJob(background.JobLowStockAlerts, cfg.LowStockInterval, lowStock.Task),
		scheduler.AddJob(background.JobRecipeRecalc, cfg.RecipeRecalcInterval, recalc.Task),
	); err != nil {
		log.Fatal().Err(err).Msg("failed to register background jobs")
	}

	app := &application{
		cfg:       cfg,
		jwtKeys:   jwtKeys,
		rbac:      middleware.NewRBACMiddleware(rbacSvc),
		audit:     middleware.NewAuditMiddleware(auditSvc),
		versions:  middleware.NewVersionMiddleware(),
		health:    handlers.NewHealthHandlers(pool, cacheSvc, objectStorage, cfg.DocumentsBucket, version),
		me:        handlers.NewMeHandlers(rbacSvc),
		tree:      handlers.NewTreeHandlers(treeSvc, priceSvc),
		recipes:   handlers.NewRecipeHandlers(recipeSvc),
		costs:     handlers.NewRecipeCostHandlers(recipeCostSvc),
		employees: handlers.NewEmployeeHandlers(employeeSvc),
		notifs:    handlers.NewNotificationHandlers(notificationSvc),
		stock:     handlers.NewStockHandlers(stockSvc),
		auditLogs: handlers.NewAuditLogsHandlers(auditSvc),
		jobsAdmin: handlers.NewJobHandlers(scheduler),
	}

	e := newServer(cfg)
	app.routes(e)

	scheduler.Start()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		log.Info().Str("version", version).Str("addr", addr).Str("env", cfg.Env).Msg("clinicalfresh server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := scheduler.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown failed")
	}
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func newServer(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}
		e.DefaultHTTPErrorHandler(err, c)
	}

	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.RateLimiter(echoMiddleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimitRPS))))

	return e
}
