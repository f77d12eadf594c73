package routes

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/controllers"
	"github.com/dcodingdev/gearguard/internal/repositories"
	"github.com/dcodingdev/gearguard/internal/services"
	"github.com/dcodingdev/gearguard/pkg/config"
	"github.com/dcodingdev/gearguard/pkg/eventbus"
	"github.com/dcodingdev/gearguard/pkg/metrics"
	"github.com/dcodingdev/gearguard/pkg/middleware"
	"github.com/dcodingdev/gearguard/pkg/service"
)

type Loggers struct {
	Main      *zap.Logger
	Auth      *zap.Logger
	Request   *zap.Logger
	Equipment *zap.Logger
	Team      *zap.Logger
	User      *zap.Logger
}

// Dependencies are the shared clients the router wires services from.
type Dependencies struct {
	DB        *pgxpool.Pool
	Redis     *redis.Client
	JWT       service.JWTService
	Validator services.StructValidator
	Bus       *eventbus.Bus
	Metrics   *metrics.Metrics
	Config    *config.Config
}

// Controllers groups every HTTP handler set. Tests build it from fakes.
type Controllers struct {
	Auth      *controllers.AuthController
	Request   *controllers.RequestController
	Equipment *controllers.EquipmentController
	Team      *controllers.TeamController
	User      *controllers.UserController
	Dashboard *controllers.DashboardController
	Report    *controllers.ReportController
}

func InitRouter(e *echo.Echo, deps Dependencies, loggers *Loggers) {
	loggers.Main.Info("InitRouter: building routes")

	txManager := repositories.NewTxManager(deps.DB)

	// repositories
	userRepo := repositories.NewUserRepository(deps.DB, loggers.User)
	requestRepo := repositories.NewRequestRepository(deps.DB, loggers.Request)
	equipmentRepo := repositories.NewEquipmentRepository(deps.DB, loggers.Equipment)
	teamRepo := repositories.NewTeamRepository(deps.DB, loggers.Team)
	activityRepo := repositories.NewActivityLogRepository(deps.DB, loggers.Main)
	dashboardRepo := repositories.NewDashboardRepository(deps.DB, loggers.Main)
	cacheRepo := repositories.NewRedisCacheRepository(deps.Redis)

	// services
	activity := services.NewActivityLogger(activityRepo, loggers.Main)
	cascade := services.NewScrapCascadeService(equipmentRepo, requestRepo, activity, deps.Bus, deps.Metrics, loggers.Request)
	requestService := services.NewRequestService(txManager, requestRepo, activity, cascade, deps.Validator, deps.Bus, loggers.Request)
	equipmentService := services.NewEquipmentService(txManager, equipmentRepo, requestRepo, activity, deps.Bus, loggers.Equipment)
	teamService := services.NewTeamService(txManager, teamRepo, activity, loggers.Team)
	userService := services.NewUserService(txManager, userRepo, activity, loggers.User)
	authService := services.NewAuthService(userRepo, deps.JWT, loggers.Auth)
	dashboardService := services.NewDashboardService(dashboardRepo, cacheRepo, deps.Config.Cache.DashboardTTL, loggers.Main)
	notificationService := services.NewNotificationService(activity)
	reportService := services.NewReportService(requestRepo, loggers.Main)

	ctrls := Controllers{
		Auth:      controllers.NewAuthController(authService, deps.Config.JWT.CookieName, deps.Config.JWT.CookieSecure, loggers.Auth),
		Request:   controllers.NewRequestController(requestService, loggers.Request),
		Equipment: controllers.NewEquipmentController(equipmentService, loggers.Equipment),
		Team:      controllers.NewTeamController(teamService, loggers.Team),
		User:      controllers.NewUserController(userService, loggers.User),
		Dashboard: controllers.NewDashboardController(dashboardService, notificationService, loggers.Main),
		Report:    controllers.NewReportController(reportService, loggers.Main),
	}

	authMW := middleware.NewAuthMiddleware(deps.JWT, deps.Config.JWT.CookieName, loggers.Auth)
	RegisterRoutes(e, ctrls, authMW, deps.Metrics, loggers.Main)

	loggers.Main.Info("InitRouter: routes ready")
}

// RegisterRoutes mounts /health, /metrics and the /api tree.
func RegisterRoutes(e *echo.Echo, ctrls Controllers, authMW *middleware.AuthMiddleware, m *metrics.Metrics, logger *zap.Logger) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	api := e.Group("/api")
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, ctrls.Auth)
	runRequestRouter(secureGroup, ctrls.Request, logger)
	runEquipmentRouter(secureGroup, ctrls.Equipment, logger)
	runTeamRouter(secureGroup, ctrls.Team, logger)
	runUserRouter(secureGroup, ctrls.User, logger)
	runDashboardRouter(secureGroup, ctrls.Dashboard)
	runReportRouter(secureGroup, ctrls.Report, logger)
}
