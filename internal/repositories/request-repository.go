package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/entities"
	db "github.com/dcodingdev/gearguard/internal/infrastructure/bd"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/types"
)

const (
	requestTable  = "maintenance_requests"
	requestFields = `id, subject, description, type, priority, equipment_id, team_id, assigned_technician_id,
		status, scheduled_date, completed_date, duration, notes, created_by, created_at, updated_at`
)

var requestListSpec = db.ListSpec{
	Filters: map[string]string{
		"id":                     "id",
		"status":                 "status",
		"type":                   "type",
		"priority":               "priority",
		"team_id":                "team_id",
		"equipment_id":           "equipment_id",
		"assigned_technician_id": "assigned_technician_id",
		"created_by":             "created_by",
	},
	Sort: map[string]string{
		"scheduled_date": "scheduled_date",
		"created_at":     "created_at",
		"updated_at":     "updated_at",
		"priority":       "priority",
		"status":         "status",
		"subject":        "subject",
	},
	SearchCols:  []string{"subject", "description"},
	DefaultSort: "created_at DESC",
}

type RequestRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id string) (*entities.MaintenanceRequest, error)
	// FindForUpdate locks the row until tx ends.
	FindForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.MaintenanceRequest, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error)
	FindByEquipment(ctx context.Context, equipmentID string) ([]entities.MaintenanceRequest, error)
	Create(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest) error
	Update(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest) error
	Delete(ctx context.Context, tx pgx.Tx, id string) error

	// CancelOpenForEquipment sets every open request of the equipment, except excludeID,
	// to cancelled and returns the affected ids. Rows that are no longer open are not touched.
	CancelOpenForEquipment(ctx context.Context, tx pgx.Tx, equipmentID, excludeID string, now time.Time) ([]string, error)
	// FindScrappedEquipmentWithOpenRequests returns ids of scrapped equipment that still has open requests.
	FindScrappedEquipmentWithOpenRequests(ctx context.Context) ([]string, error)
}

type requestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &requestRepository{storage: storage, logger: logger}
}

func scanRequest(row pgx.Row) (*entities.MaintenanceRequest, error) {
	var r entities.MaintenanceRequest
	err := row.Scan(
		&r.ID, &r.Subject, &r.Description, &r.Type, &r.Priority, &r.EquipmentID, &r.TeamID, &r.AssignedTechnicianID,
		&r.Status, &r.ScheduledDate, &r.CompletedDate, &r.Duration, &r.Notes, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func collectRequests(rows pgx.Rows) ([]entities.MaintenanceRequest, error) {
	defer rows.Close()
	list := make([]entities.MaintenanceRequest, 0)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *r)
	}
	return list, rows.Err()
}

func (r *requestRepository) findOne(ctx context.Context, q Querier, id string, forUpdate bool) (*entities.MaintenanceRequest, error) {
	builder := db.Psql.Select(requestFields).From(requestTable).Where(sq.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, wrapErr("build find request", err)
	}
	req, err := scanRequest(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("find request", err)
	}
	return req, nil
}

func (r *requestRepository) FindByID(ctx context.Context, tx pgx.Tx, id string) (*entities.MaintenanceRequest, error) {
	return r.findOne(ctx, querierFor(r.storage, tx), id, false)
}

func (r *requestRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.MaintenanceRequest, error) {
	return r.findOne(ctx, tx, id, true)
}

func (r *requestRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	countQuery, countArgs, err := db.ApplyFilters(db.Psql.Select("COUNT(*)").From(requestTable), filter, requestListSpec).ToSql()
	if err != nil {
		return nil, 0, wrapErr("build count requests", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count requests", err)
	}
	if total == 0 {
		return []entities.MaintenanceRequest{}, 0, nil
	}

	query, args, err := db.ApplyListParams(db.Psql.Select(requestFields).From(requestTable), filter, requestListSpec).ToSql()
	if err != nil {
		return nil, 0, wrapErr("build list requests", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list requests", err)
	}
	list, err := collectRequests(rows)
	if err != nil {
		return nil, 0, wrapErr("scan requests", err)
	}
	return list, total, nil
}

func (r *requestRepository) FindByEquipment(ctx context.Context, equipmentID string) ([]entities.MaintenanceRequest, error) {
	query, args, err := db.Psql.Select(requestFields).From(requestTable).
		Where(sq.Eq{"equipment_id": equipmentID}).
		OrderBy("scheduled_date DESC").
		ToSql()
	if err != nil {
		return nil, wrapErr("build requests by equipment", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("requests by equipment", err)
	}
	list, err := collectRequests(rows)
	return list, wrapErr("scan requests by equipment", err)
}

func (r *requestRepository) Create(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest) error {
	query, args, err := db.Psql.Insert(requestTable).
		Columns("id", "subject", "description", "type", "priority", "equipment_id", "team_id", "assigned_technician_id",
			"status", "scheduled_date", "completed_date", "duration", "notes", "created_by", "created_at", "updated_at").
		Values(req.ID, req.Subject, req.Description, req.Type, req.Priority, req.EquipmentID, req.TeamID, req.AssignedTechnicianID,
			req.Status, req.ScheduledDate, req.CompletedDate, req.Duration, req.Notes, req.CreatedBy, req.CreatedAt, req.UpdatedAt).
		ToSql()
	if err != nil {
		return wrapErr("build insert request", err)
	}
	_, err = querierFor(r.storage, tx).Exec(ctx, query, args...)
	return wrapErr("insert request", err)
}

func (r *requestRepository) Update(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest) error {
	query, args, err := db.Psql.Update(requestTable).
		SetMap(map[string]interface{}{
			"subject":                req.Subject,
			"description":            req.Description,
			"type":                   req.Type,
			"priority":               req.Priority,
			"equipment_id":           req.EquipmentID,
			"team_id":                req.TeamID,
			"assigned_technician_id": req.AssignedTechnicianID,
			"status":                 req.Status,
			"scheduled_date":         req.ScheduledDate,
			"completed_date":         req.CompletedDate,
			"duration":               req.Duration,
			"notes":                  req.Notes,
			"updated_at":             req.UpdatedAt,
		}).
		Where(sq.Eq{"id": req.ID}).
		ToSql()
	if err != nil {
		return wrapErr("build update request", err)
	}
	tag, err := querierFor(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("update request", err)
	}
	return expectAffected(tag)
}

func (r *requestRepository) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	query, args, err := db.Psql.Delete(requestTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return wrapErr("build delete request", err)
	}
	tag, err := querierFor(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("delete request", err)
	}
	return expectAffected(tag)
}

func (r *requestRepository) CancelOpenForEquipment(ctx context.Context, tx pgx.Tx, equipmentID, excludeID string, now time.Time) ([]string, error) {
	builder := db.Psql.Update(requestTable).
		Set("status", constants.RequestStatusCancelled).
		Set("updated_at", now).
		Where(sq.Eq{"equipment_id": equipmentID, "status": constants.OpenStatuses})
	if excludeID != "" {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}
	query, args, err := builder.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, wrapErr("build cancel siblings", err)
	}

	rows, err := querierFor(r.storage, tx).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("cancel siblings", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrapErr("cancel siblings", err)
	}
	return ids, nil
}

func (r *requestRepository) FindScrappedEquipmentWithOpenRequests(ctx context.Context) ([]string, error) {
	query, args, err := db.Psql.Select("DISTINCT r.equipment_id").
		From(requestTable + " r").
		Join("equipment e ON e.id = r.equipment_id").
		Where(sq.Eq{"e.status": constants.EquipmentStatusScrapped, "r.status": constants.OpenStatuses}).
		ToSql()
	if err != nil {
		return nil, wrapErr("build orphaned open requests", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("orphaned open requests", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrapErr("orphaned open requests", err)
	}
	return ids, nil
}
