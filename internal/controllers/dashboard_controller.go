package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/services"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

type DashboardController struct {
	dashboardService    services.DashboardServiceInterface
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewDashboardController(
	dashboardService services.DashboardServiceInterface,
	notificationService services.NotificationServiceInterface,
	logger *zap.Logger,
) *DashboardController {
	return &DashboardController{dashboardService: dashboardService, notificationService: notificationService, logger: logger}
}

func (c *DashboardController) GetStats(ctx echo.Context) error {
	stats, err := c.dashboardService.GetStats(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "Dashboard stats", http.StatusOK)
}

func (c *DashboardController) GetNotifications(ctx echo.Context) error {
	list, err := c.notificationService.GetNotifications(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Notifications", http.StatusOK)
}
