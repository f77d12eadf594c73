package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/authz"
	"github.com/dcodingdev/gearguard/internal/core/workflow"
	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/internal/entities"
	"github.com/dcodingdev/gearguard/internal/events"
	"github.com/dcodingdev/gearguard/internal/repositories"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/eventbus"
	"github.com/dcodingdev/gearguard/pkg/types"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id string) (*entities.Equipment, error)
	GetEquipmentRequests(ctx context.Context, id string) (*dto.EquipmentDetailsDTO, error)
	CreateEquipment(ctx context.Context, data dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id string, data dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	DeleteEquipment(ctx context.Context, id string) error
}

type EquipmentService struct {
	txManager     repositories.TxManagerInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	requestRepo   repositories.RequestRepositoryInterface
	activity      ActivityLoggerInterface
	bus           *eventbus.Bus
	clock         func() time.Time
	logger        *zap.Logger
}

func NewEquipmentService(
	txManager repositories.TxManagerInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	activity ActivityLoggerInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		txManager:     txManager,
		equipmentRepo: equipmentRepo,
		requestRepo:   requestRepo,
		activity:      activity,
		bus:           bus,
		clock:         time.Now,
		logger:        logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	if _, err := s.requirePermission(ctx, authz.EquipmentView); err != nil {
		return nil, 0, err
	}
	return s.equipmentRepo.GetAll(ctx, filter)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id string) (*entities.Equipment, error) {
	if _, err := s.requirePermission(ctx, authz.EquipmentView); err != nil {
		return nil, err
	}
	return s.equipmentRepo.FindByID(ctx, nil, id)
}

// GetEquipmentRequests returns the equipment with every request filed against it.
// For technicians only requests of their own team are included.
func (s *EquipmentService) GetEquipmentRequests(ctx context.Context, id string) (*dto.EquipmentDetailsDTO, error) {
	actor, err := s.requirePermission(ctx, authz.EquipmentView)
	if err != nil {
		return nil, err
	}
	equipment, err := s.equipmentRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	all, err := s.requestRepo.FindByEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &dto.EquipmentDetailsDTO{Equipment: equipment, Requests: make([]entities.MaintenanceRequest, 0, len(all))}
	for i := range all {
		if authz.CanReadRequest(actor, &all[i]) != nil {
			continue
		}
		details.Requests = append(details.Requests, all[i])
		if constants.IsOpenStatus(all[i].Status) {
			details.OpenRequestCount++
		}
	}
	return details, nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, data dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	actor, err := s.requirePermission(ctx, authz.EquipmentManage)
	if err != nil {
		return nil, err
	}

	now := s.clock().UTC()
	e := entities.Equipment{
		ID:                   utils.NewID(),
		Name:                 data.Name,
		SerialNumber:         data.SerialNumber,
		Category:             data.Category,
		Department:           data.Department,
		AssignedEmployeeID:   data.AssignedEmployeeID.Ptr(),
		AssignedEmployeeName: data.AssignedEmployeeName.Ptr(),
		MaintenanceTeamID:    data.MaintenanceTeamID,
		DefaultTechnicianID:  data.DefaultTechnicianID.Ptr(),
		PurchaseDate:         data.PurchaseDate,
		WarrantyExpiry:       data.WarrantyExpiry.Ptr(),
		Location:             data.Location,
		Status:               data.Status,
		Notes:                data.Notes.Ptr(),
	}
	if e.Status == "" {
		e.Status = constants.EquipmentStatusOperational
	}
	e.IsScraped = e.Status == constants.EquipmentStatusScrapped
	e.CreatedAt, e.UpdatedAt = &now, &now

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.equipmentRepo.Create(ctx, tx, &e); err != nil {
			return err
		}
		return s.activity.Append(ctx, tx,
			activityEntry(actor, constants.ActivityTypeEquipment, constants.ActionCreate, e.ID, e.Name, nil))
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.EquipmentChangedEvent{EquipmentID: e.ID, Action: constants.ActionCreate})
	return &e, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id string, data dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	actor, err := s.requirePermission(ctx, authz.EquipmentManage)
	if err != nil {
		return nil, err
	}

	var updated entities.Equipment
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.equipmentRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		previous := current.Status

		updated = *current
		applyEquipmentUpdate(&updated, data)

		guard := workflow.CanEditEquipmentStatus(workflow.EquipmentEditContext{
			EquipmentID:   id,
			CurrentStatus: previous,
			NewStatus:     updated.Status,
		})
		if err := guard.Error(); err != nil {
			return err
		}
		if updated.Status == constants.EquipmentStatusScrapped {
			updated.IsScraped = true
		}
		now := s.clock().UTC()
		updated.UpdatedAt = &now

		if err := s.equipmentRepo.Update(ctx, tx, &updated); err != nil {
			return err
		}

		action := constants.ActionUpdate
		var details *string
		if previous != updated.Status {
			action = constants.ActionStatusChange
			details = utils.ToPtr("Status changed from " + previous + " to " + updated.Status)
		}
		return s.activity.Append(ctx, tx,
			activityEntry(actor, constants.ActivityTypeEquipment, action, id, updated.Name, details))
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.EquipmentChangedEvent{EquipmentID: id, Action: constants.ActionUpdate})
	return &updated, nil
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id string) error {
	actor, err := s.requirePermission(ctx, authz.EquipmentDelete)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.equipmentRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.equipmentRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.activity.Append(ctx, tx,
			activityEntry(actor, constants.ActivityTypeEquipment, constants.ActionDelete, id, current.Name, nil))
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.EquipmentChangedEvent{EquipmentID: id, Action: constants.ActionDelete})
	return nil
}

func (s *EquipmentService) requirePermission(ctx context.Context, permission string) (dto.Actor, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return dto.Actor{}, err
	}
	if err := authz.Require(actor, permission); err != nil {
		s.logger.Warn("permission denied",
			zap.String("user_id", actor.UserID),
			zap.String("permission", permission),
		)
		return dto.Actor{}, err
	}
	return actor, nil
}

func applyEquipmentUpdate(e *entities.Equipment, d dto.UpdateEquipmentDTO) {
	if d.Name != nil {
		e.Name = *d.Name
	}
	if d.SerialNumber != nil {
		e.SerialNumber = *d.SerialNumber
	}
	if d.Category != nil {
		e.Category = *d.Category
	}
	if d.Department != nil {
		e.Department = *d.Department
	}
	if d.MaintenanceTeamID != nil {
		e.MaintenanceTeamID = *d.MaintenanceTeamID
	}
	if d.PurchaseDate != nil {
		e.PurchaseDate = *d.PurchaseDate
	}
	if d.Location != nil {
		e.Location = *d.Location
	}
	if d.Status != nil {
		e.Status = *d.Status
	}
	if d.AssignedEmployeeID != nil {
		e.AssignedEmployeeID = optional(*d.AssignedEmployeeID)
	}
	if d.AssignedEmployeeName != nil {
		e.AssignedEmployeeName = optional(*d.AssignedEmployeeName)
	}
	if d.DefaultTechnicianID != nil {
		e.DefaultTechnicianID = optional(*d.DefaultTechnicianID)
	}
	if d.WarrantyExpiry != nil {
		e.WarrantyExpiry = d.WarrantyExpiry
	}
	if d.Notes != nil {
		e.Notes = optional(*d.Notes)
	}
}

// optional maps an empty string to a cleared value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
