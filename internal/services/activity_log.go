package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/internal/entities"
	"github.com/dcodingdev/gearguard/internal/repositories"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

// ActivityLoggerInterface records audit entries. Entries are never validated
// against the records they mention.
type ActivityLoggerInterface interface {
	Append(ctx context.Context, tx pgx.Tx, entry entities.ActivityLog) error
	Recent(ctx context.Context, limit int) ([]entities.ActivityLog, error)
}

type ActivityLogger struct {
	repo   repositories.ActivityLogRepositoryInterface
	clock  func() time.Time
	logger *zap.Logger
}

func NewActivityLogger(repo repositories.ActivityLogRepositoryInterface, logger *zap.Logger) ActivityLoggerInterface {
	return &ActivityLogger{repo: repo, clock: time.Now, logger: logger}
}

func (l *ActivityLogger) Append(ctx context.Context, tx pgx.Tx, entry entities.ActivityLog) error {
	entry.ID = utils.NewID()
	entry.CreatedAt = l.clock().UTC()
	if err := l.repo.Append(ctx, tx, &entry); err != nil {
		l.logger.Error("failed to append activity entry",
			zap.String("type", entry.Type),
			zap.String("action", entry.Action),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (l *ActivityLogger) Recent(ctx context.Context, limit int) ([]entities.ActivityLog, error) {
	switch {
	case limit <= 0:
		limit = constants.DefaultActivityFeedLimit
	case limit > constants.MaxActivityFeedLimit:
		limit = constants.MaxActivityFeedLimit
	}
	return l.repo.Recent(ctx, limit)
}

// activityEntry fills the actor attribution of a log entry.
func activityEntry(actor dto.Actor, kind, action, entityID, entityName string, details *string) entities.ActivityLog {
	return entities.ActivityLog{
		Type:       kind,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details:    details,
	}
}
