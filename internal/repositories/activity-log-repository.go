package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/entities"
	db "github.com/dcodingdev/gearguard/internal/infrastructure/bd"
)

const (
	activityTable  = "activity_log"
	activityFields = "id, type, action, entity_id, entity_name, user_id, user_name, details, created_at"
)

type ActivityLogRepositoryInterface interface {
	Append(ctx context.Context, tx pgx.Tx, entry *entities.ActivityLog) error
	// Recent returns the newest entries first.
	Recent(ctx context.Context, limit int) ([]entities.ActivityLog, error)
}

type activityLogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewActivityLogRepository(storage *pgxpool.Pool, logger *zap.Logger) ActivityLogRepositoryInterface {
	return &activityLogRepository{storage: storage, logger: logger}
}

func (r *activityLogRepository) Append(ctx context.Context, tx pgx.Tx, e *entities.ActivityLog) error {
	query, args, err := db.Psql.Insert(activityTable).
		Columns("id", "type", "action", "entity_id", "entity_name", "user_id", "user_name", "details", "created_at").
		Values(e.ID, e.Type, e.Action, e.EntityID, e.EntityName, e.UserID, e.UserName, e.Details, e.CreatedAt).
		ToSql()
	if err != nil {
		return wrapErr("build append activity", err)
	}
	_, err = querierFor(r.storage, tx).Exec(ctx, query, args...)
	return wrapErr("append activity", err)
}

func (r *activityLogRepository) Recent(ctx context.Context, limit int) ([]entities.ActivityLog, error) {
	query, args, err := db.Psql.Select(activityFields).From(activityTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, wrapErr("build recent activity", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("recent activity", err)
	}
	defer rows.Close()

	entries := make([]entities.ActivityLog, 0, limit)
	for rows.Next() {
		var e entities.ActivityLog
		if err := rows.Scan(&e.ID, &e.Type, &e.Action, &e.EntityID, &e.EntityName, &e.UserID, &e.UserName, &e.Details, &e.CreatedAt); err != nil {
			return nil, wrapErr("scan activity", err)
		}
		entries = append(entries, e)
	}
	return entries, wrapErr("recent activity", rows.Err())
}
