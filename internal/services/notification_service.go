package services

import (
	"context"

	"github.com/dcodingdev/gearguard/internal/entities"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

type NotificationServiceInterface interface {
	GetNotifications(ctx context.Context) ([]entities.ActivityLog, error)
}

// NotificationService exposes the latest activity entries as the notification feed.
type NotificationService struct {
	activity ActivityLoggerInterface
}

func NewNotificationService(activity ActivityLoggerInterface) NotificationServiceInterface {
	return &NotificationService{activity: activity}
}

func (s *NotificationService) GetNotifications(ctx context.Context) ([]entities.ActivityLog, error) {
	if _, err := utils.GetActorFromCtx(ctx); err != nil {
		return nil, err
	}
	return s.activity.Recent(ctx, constants.DefaultActivityFeedLimit)
}
