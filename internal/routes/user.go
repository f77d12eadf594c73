package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/controllers"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/middleware"
)

// Self-or-admin checks for /users/:id live in the user service.
func runUserRouter(secureGroup *echo.Group, userCtrl *controllers.UserController, logger *zap.Logger) {
	secureGroup.GET("/users", userCtrl.GetUsers, middleware.RequireRole(logger, constants.RoleAdmin, constants.RoleManager))
	secureGroup.POST("/users", userCtrl.CreateUser, middleware.RequireRole(logger, constants.RoleAdmin))
	secureGroup.GET("/users/:id", userCtrl.FindUser)
	secureGroup.PUT("/users/:id", userCtrl.UpdateUser)
	secureGroup.DELETE("/users/:id", userCtrl.DeleteUser)
}
