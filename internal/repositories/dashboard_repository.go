package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	db "github.com/dcodingdev/gearguard/internal/infrastructure/bd"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/types"
)

type DashboardRepositoryInterface interface {
	GetStats(ctx context.Context) (*types.DashboardStats, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

// GetStats computes all counters in one round trip.
func (r *DashboardRepository) GetStats(ctx context.Context) (*types.DashboardStats, error) {
	count := func(table, col, val string) sq.Sqlizer {
		return sq.Expr("(SELECT COUNT(*) FROM "+table+" WHERE "+col+" = ?)", val)
	}
	query, args, err := db.Psql.Select().
		Column("(SELECT COUNT(*) FROM equipment)").
		Column(count("equipment", "status", constants.EquipmentStatusOperational)).
		Column(count("equipment", "status", constants.EquipmentStatusUnderMaintenance)).
		Column(count("equipment", "status", constants.EquipmentStatusOutOfService)).
		Column(count("equipment", "status", constants.EquipmentStatusScrapped)).
		Column("(SELECT COUNT(*) FROM maintenance_requests)").
		Column(count("maintenance_requests", "status", constants.RequestStatusNew)).
		Column(count("maintenance_requests", "status", constants.RequestStatusInProgress)).
		Column(count("maintenance_requests", "status", constants.RequestStatusRepaired)).
		Column("(SELECT COUNT(*) FROM maintenance_teams)").
		Column(count("users", "role", constants.RoleTechnician)).
		ToSql()
	if err != nil {
		return nil, wrapErr("build dashboard stats", err)
	}

	var s types.DashboardStats
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&s.TotalEquipment, &s.OperationalEquipment, &s.UnderMaintenance, &s.OutOfService, &s.ScrappedEquipment,
		&s.TotalRequests, &s.OpenRequests, &s.InProgressRequests, &s.CompletedRequests,
		&s.TotalTeams, &s.TotalTechnicians,
	)
	if err != nil {
		return nil, wrapErr("dashboard stats", err)
	}
	return &s, nil
}
