package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/dcodingdev/gearguard/internal/controllers"
)

func runDashboardRouter(secureGroup *echo.Group, dashboardCtrl *controllers.DashboardController) {
	secureGroup.GET("/dashboard/stats", dashboardCtrl.GetStats)
	secureGroup.GET("/notifications", dashboardCtrl.GetNotifications)
}
