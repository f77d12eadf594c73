package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/authz"
	"github.com/dcodingdev/gearguard/internal/entities"
	"github.com/dcodingdev/gearguard/internal/repositories"
	"github.com/dcodingdev/gearguard/pkg/types"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

const (
	reportSheet    = "Requests"
	reportMaxRows  = 100000
	reportDateTime = "2006-01-02 15:04"
)

var reportHeaders = []string{
	"ID", "Subject", "Type", "Priority", "Status", "Equipment ID", "Team ID",
	"Technician ID", "Scheduled", "Completed", "Hours Spent", "Notes", "Created By",
}

type ReportServiceInterface interface {
	BuildRequestsReport(ctx context.Context, filter types.Filter) (*excelize.File, error)
}

type ReportService struct {
	requestRepo repositories.RequestRepositoryInterface
	logger      *zap.Logger
}

func NewReportService(requestRepo repositories.RequestRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{requestRepo: requestRepo, logger: logger}
}

// BuildRequestsReport exports every request matching filter, ignoring pagination.
func (s *ReportService) BuildRequestsReport(ctx context.Context, filter types.Filter) (*excelize.File, error) {
	if _, err := actorWith(ctx, authz.RequestsExport); err != nil {
		return nil, err
	}

	filter.Page, filter.Offset, filter.Limit = 1, 0, reportMaxRows
	requests, _, err := s.requestRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeaders); err != nil {
		return nil, err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(reportHeaders))
		_ = f.SetCellStyle(reportSheet, "A1", lastCol+"1", style)
	}

	for i, r := range requests {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := reportRow(r)
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(reportSheet, "B", "B", 40)
	_ = f.SetColWidth(reportSheet, "I", "J", 18)
	_ = f.SetColWidth(reportSheet, "L", "L", 50)

	s.logger.Debug("requests report built", zap.Int("rows", len(requests)))
	return f, nil
}

func reportRow(r entities.MaintenanceRequest) []interface{} {
	var completed, hours string
	if r.CompletedDate != nil {
		completed = r.CompletedDate.Format(reportDateTime)
	}
	if r.Duration != nil {
		hours = fmt.Sprintf("%.2f", *r.Duration)
	}
	return []interface{}{
		r.ID, r.Subject, r.Type, r.Priority, r.Status, r.EquipmentID, r.TeamID,
		utils.SafeDeref(r.AssignedTechnicianID), r.ScheduledDate.Format(reportDateTime), completed, hours,
		utils.SafeDeref(r.Notes), r.CreatedBy,
	}
}
