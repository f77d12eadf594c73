package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/controllers"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/middleware"
)

func runTeamRouter(secureGroup *echo.Group, teamCtrl *controllers.TeamController, logger *zap.Logger) {
	staff := middleware.RequireRole(logger, constants.RoleAdmin, constants.RoleManager)
	admin := middleware.RequireRole(logger, constants.RoleAdmin)

	secureGroup.GET("/teams", teamCtrl.GetTeams)
	secureGroup.POST("/teams", teamCtrl.CreateTeam, staff)
	secureGroup.GET("/teams/:id", teamCtrl.FindTeam)
	secureGroup.PUT("/teams/:id", teamCtrl.UpdateTeam, staff)
	secureGroup.DELETE("/teams/:id", teamCtrl.DeleteTeam, admin)
	secureGroup.POST("/teams/:id/members", teamCtrl.AddMember, staff)
	secureGroup.DELETE("/teams/:id/members/:memberId", teamCtrl.RemoveMember, staff)
}
