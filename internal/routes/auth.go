package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/dcodingdev/gearguard/internal/controllers"
)

func runAuthRouter(api *echo.Group, secureGroup *echo.Group, authCtrl *controllers.AuthController) {
	api.POST("/auth/login", authCtrl.Login)
	api.POST("/auth/register", authCtrl.Register)
	api.POST("/auth/logout", authCtrl.Logout)
	secureGroup.GET("/auth/me", authCtrl.Me)
}
