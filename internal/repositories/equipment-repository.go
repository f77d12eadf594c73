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
	equipmentTable  = "equipment"
	equipmentFields = `id, name, serial_number, category, department, assigned_employee_id, assigned_employee_name,
		maintenance_team_id, default_technician_id, purchase_date, warranty_expiry, location, status, notes,
		is_scraped, scrap_reason, created_at, updated_at`
)

var equipmentListSpec = db.ListSpec{
	Filters: map[string]string{
		"id":                  "id",
		"status":              "status",
		"category":            "category",
		"department":          "department",
		"maintenance_team_id": "maintenance_team_id",
		"is_scraped":          "is_scraped",
	},
	Sort: map[string]string{
		"name":          "name",
		"purchase_date": "purchase_date",
		"created_at":    "created_at",
		"status":        "status",
	},
	SearchCols:  []string{"name", "serial_number", "location"},
	DefaultSort: "name ASC",
}

type EquipmentRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id string) (*entities.Equipment, error)
	// FindForUpdate locks the row until tx ends.
	FindForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.Equipment, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, e *entities.Equipment) error
	Update(ctx context.Context, tx pgx.Tx, e *entities.Equipment) error
	Delete(ctx context.Context, tx pgx.Tx, id string) error
	// MarkScrapped flips the equipment to scrapped unless it already is.
	// It reports whether this call changed the row.
	MarkScrapped(ctx context.Context, tx pgx.Tx, id, reason string, now time.Time) (bool, error)
}

type equipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &equipmentRepository{storage: storage, logger: logger}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID, &e.Name, &e.SerialNumber, &e.Category, &e.Department, &e.AssignedEmployeeID, &e.AssignedEmployeeName,
		&e.MaintenanceTeamID, &e.DefaultTechnicianID, &e.PurchaseDate, &e.WarrantyExpiry, &e.Location, &e.Status, &e.Notes,
		&e.IsScraped, &e.ScrapReason, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *equipmentRepository) findOne(ctx context.Context, q Querier, id string, forUpdate bool) (*entities.Equipment, error) {
	builder := db.Psql.Select(equipmentFields).From(equipmentTable).Where(sq.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, wrapErr("build find equipment", err)
	}
	e, err := scanEquipment(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("find equipment", err)
	}
	return e, nil
}

func (r *equipmentRepository) FindByID(ctx context.Context, tx pgx.Tx, id string) (*entities.Equipment, error) {
	return r.findOne(ctx, querierFor(r.storage, tx), id, false)
}

func (r *equipmentRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.Equipment, error) {
	return r.findOne(ctx, tx, id, true)
}

func (r *equipmentRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	countQuery, countArgs, err := db.ApplyFilters(db.Psql.Select("COUNT(*)").From(equipmentTable), filter, equipmentListSpec).ToSql()
	if err != nil {
		return nil, 0, wrapErr("build count equipment", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count equipment", err)
	}
	if total == 0 {
		return []entities.Equipment{}, 0, nil
	}

	query, args, err := db.ApplyListParams(db.Psql.Select(equipmentFields).From(equipmentTable), filter, equipmentListSpec).ToSql()
	if err != nil {
		return nil, 0, wrapErr("build list equipment", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list equipment", err)
	}
	defer rows.Close()

	list := make([]entities.Equipment, 0)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, wrapErr("scan equipment", err)
		}
		list = append(list, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("list equipment", err)
	}
	return list, total, nil
}

func (r *equipmentRepository) Create(ctx context.Context, tx pgx.Tx, e *entities.Equipment) error {
	query, args, err := db.Psql.Insert(equipmentTable).
		Columns("id", "name", "serial_number", "category", "department", "assigned_employee_id", "assigned_employee_name",
			"maintenance_team_id", "default_technician_id", "purchase_date", "warranty_expiry", "location", "status", "notes",
			"is_scraped", "scrap_reason", "created_at", "updated_at").
		Values(e.ID, e.Name, e.SerialNumber, e.Category, e.Department, e.AssignedEmployeeID, e.AssignedEmployeeName,
			e.MaintenanceTeamID, e.DefaultTechnicianID, e.PurchaseDate, e.WarrantyExpiry, e.Location, e.Status, e.Notes,
			e.IsScraped, e.ScrapReason, e.CreatedAt, e.UpdatedAt).
		ToSql()
	if err != nil {
		return wrapErr("build insert equipment", err)
	}
	_, err = querierFor(r.storage, tx).Exec(ctx, query, args...)
	return wrapErr("insert equipment", err)
}

func (r *equipmentRepository) Update(ctx context.Context, tx pgx.Tx, e *entities.Equipment) error {
	query, args, err := db.Psql.Update(equipmentTable).
		SetMap(map[string]interface{}{
			"name":                   e.Name,
			"serial_number":          e.SerialNumber,
			"category":               e.Category,
			"department":             e.Department,
			"assigned_employee_id":   e.AssignedEmployeeID,
			"assigned_employee_name": e.AssignedEmployeeName,
			"maintenance_team_id":    e.MaintenanceTeamID,
			"default_technician_id":  e.DefaultTechnicianID,
			"purchase_date":          e.PurchaseDate,
			"warranty_expiry":        e.WarrantyExpiry,
			"location":               e.Location,
			"status":                 e.Status,
			"notes":                  e.Notes,
			"is_scraped":             e.IsScraped,
			"scrap_reason":           e.ScrapReason,
			"updated_at":             e.UpdatedAt,
		}).
		Where(sq.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return wrapErr("build update equipment", err)
	}
	tag, err := querierFor(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("update equipment", err)
	}
	return expectAffected(tag)
}

func (r *equipmentRepository) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	query, args, err := db.Psql.Delete(equipmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return wrapErr("build delete equipment", err)
	}
	tag, err := querierFor(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("delete equipment", err)
	}
	return expectAffected(tag)
}

func (r *equipmentRepository) MarkScrapped(ctx context.Context, tx pgx.Tx, id, reason string, now time.Time) (bool, error) {
	query, args, err := db.Psql.Update(equipmentTable).
		Set("status", constants.EquipmentStatusScrapped).
		Set("is_scraped", true).
		Set("scrap_reason", reason).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		Where(sq.NotEq{"status": constants.EquipmentStatusScrapped}).
		ToSql()
	if err != nil {
		return false, wrapErr("build mark scrapped", err)
	}
	tag, err := querierFor(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return false, wrapErr("mark scrapped", err)
	}
	return tag.RowsAffected() > 0, nil
}
