package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/controllers"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/middleware"
)

func runRequestRouter(secureGroup *echo.Group, requestCtrl *controllers.RequestController, logger *zap.Logger) {
	staff := middleware.RequireRole(logger, constants.RoleAdmin, constants.RoleManager)
	{
		secureGroup.GET("/requests", requestCtrl.GetRequests)
		secureGroup.POST("/requests", requestCtrl.CreateRequest, staff)
		secureGroup.GET("/requests/:id", requestCtrl.FindRequest)
		secureGroup.PUT("/requests/:id", requestCtrl.UpdateRequest)
		secureGroup.DELETE("/requests/:id", requestCtrl.DeleteRequest, staff)
	}
}
