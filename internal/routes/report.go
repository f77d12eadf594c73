package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/controllers"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/middleware"
)

func runReportRouter(secureGroup *echo.Group, reportCtrl *controllers.ReportController, logger *zap.Logger) {
	secureGroup.GET("/reports/requests.xlsx", reportCtrl.ExportRequests,
		middleware.RequireRole(logger, constants.RoleAdmin, constants.RoleManager))
}
