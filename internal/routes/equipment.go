package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/controllers"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/middleware"
)

func runEquipmentRouter(secureGroup *echo.Group, equipmentCtrl *controllers.EquipmentController, logger *zap.Logger) {
	staff := middleware.RequireRole(logger, constants.RoleAdmin, constants.RoleManager)
	admin := middleware.RequireRole(logger, constants.RoleAdmin)

	secureGroup.GET("/equipment", equipmentCtrl.GetEquipments)
	secureGroup.POST("/equipment", equipmentCtrl.CreateEquipment, staff)
	secureGroup.GET("/equipment/:id", equipmentCtrl.FindEquipment)
	secureGroup.GET("/equipment/:id/requests", equipmentCtrl.GetEquipmentRequests)
	secureGroup.PUT("/equipment/:id", equipmentCtrl.UpdateEquipment, staff)
	secureGroup.DELETE("/equipment/:id", equipmentCtrl.DeleteEquipment, admin)
}
