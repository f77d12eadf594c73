package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/listeners"
	"github.com/dcodingdev/gearguard/internal/repositories"
	"github.com/dcodingdev/gearguard/internal/routes"
	"github.com/dcodingdev/gearguard/internal/scheduler"
	"github.com/dcodingdev/gearguard/internal/services"
	"github.com/dcodingdev/gearguard/pkg/config"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/database/postgresql"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
	"github.com/dcodingdev/gearguard/pkg/eventbus"
	applogger "github.com/dcodingdev/gearguard/pkg/logger"
	"github.com/dcodingdev/gearguard/pkg/metrics"
	appmiddleware "github.com/dcodingdev/gearguard/pkg/middleware"
	"github.com/dcodingdev/gearguard/pkg/service"
	"github.com/dcodingdev/gearguard/pkg/utils"
	"github.com/dcodingdev/gearguard/pkg/validation"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.OutputPaths)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Internal server error", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))
	e.Use(appmiddleware.RequestLogger(logger.Named("http")))
	e.Use(m.Middleware())
	e.Validator = validation.New()

	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("cannot connect to postgres", zap.Error(err))
	}
	defer dbConn.Close()

	if cfg.Postgres.AutoMigrate {
		migrator, err := postgresql.NewMigrator(dbConn)
		if err != nil {
			logger.Fatal("cannot open migrator", zap.Error(err))
		}
		if err := migrator.Up(ctx); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
		_ = migrator.Close()
		logger.Info("migrations applied")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("cannot connect to redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	defer redisClient.Close()

	bus := eventbus.New(logger.Named("eventbus"))
	listeners.NewCacheListener(repositories.NewRedisCacheRepository(redisClient), logger.Named("cache")).Register(bus)
	listeners.NewMetricsListener(m).Register(bus)

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, logger.Named("jwt"))

	loggers := &routes.Loggers{
		Main:      logger,
		Auth:      logger.Named("auth"),
		Request:   logger.Named("request"),
		Equipment: logger.Named("equipment"),
		Team:      logger.Named("team"),
		User:      logger.Named("user"),
	}
	routes.InitRouter(e, routes.Dependencies{
		DB:        dbConn,
		Redis:     redisClient,
		JWT:       jwtSvc,
		Validator: validation.New(),
		Bus:       bus,
		Metrics:   m,
		Config:    cfg,
	}, loggers)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		schedLogger := logger.Named("scheduler")
		reconciler := services.NewReconciler(
			repositories.NewRequestRepository(dbConn, loggers.Request),
			services.NewActivityLogger(repositories.NewActivityLogRepository(dbConn, schedLogger), schedLogger),
			bus,
			schedLogger,
		)
		sched = scheduler.New(scheduler.NewRedsyncLocker(redisClient), cfg.Scheduler.LockExpiry, schedLogger)
		err := sched.Register(cfg.Scheduler.ReconcileCron, constants.LockKeyScrapReconcile, func(ctx context.Context) error {
			report, err := reconciler.Run(ctx)
			if report.Cancelled > 0 {
				schedLogger.Info("scrap reconcile pass",
					zap.Int("equipment", report.Equipment),
					zap.Int("cancelled", report.Cancelled))
			}
			return err
		})
		if err != nil {
			logger.Fatal("invalid reconcile schedule", zap.String("spec", cfg.Scheduler.ReconcileCron), zap.Error(err))
		}
		sched.Start()
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	bus.Wait()
}
