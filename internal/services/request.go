package services

import (
	"context"
	"fmt"
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

// StructValidator is satisfied by validation.CustomValidator.
type StructValidator interface {
	Validate(i interface{}) error
}

type RequestServiceInterface interface {
	GetRequests(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error)
	FindRequest(ctx context.Context, id string) (*entities.MaintenanceRequest, error)
	CreateRequest(ctx context.Context, data dto.CreateRequestDTO) (*entities.MaintenanceRequest, error)
	UpdateRequest(ctx context.Context, id string, data dto.UpdateRequestDTO) (*entities.MaintenanceRequest, error)
	DeleteRequest(ctx context.Context, id string) error
}

type RequestService struct {
	txManager   repositories.TxManagerInterface
	requestRepo repositories.RequestRepositoryInterface
	activity    ActivityLoggerInterface
	cascade     ScrapCascadeServiceInterface
	validator   StructValidator
	bus         *eventbus.Bus
	clock       func() time.Time
	logger      *zap.Logger
}

func NewRequestService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	activity ActivityLoggerInterface,
	cascade ScrapCascadeServiceInterface,
	validator StructValidator,
	bus *eventbus.Bus,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		txManager:   txManager,
		requestRepo: requestRepo,
		activity:    activity,
		cascade:     cascade,
		validator:   validator,
		bus:         bus,
		clock:       time.Now,
		logger:      logger,
	}
}

func (s *RequestService) GetRequests(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	if err := authz.Require(actor, authz.RequestsView); err != nil {
		return nil, 0, err
	}

	teamID, restricted := authz.RequestListScope(actor)
	if restricted {
		if teamID == "" {
			return []entities.MaintenanceRequest{}, 0, nil
		}
		if filter.Filter == nil {
			filter.Filter = make(map[string]interface{})
		}
		filter.Filter["team_id"] = teamID
	}
	return s.requestRepo.GetAll(ctx, filter)
}

func (s *RequestService) FindRequest(ctx context.Context, id string) (*entities.MaintenanceRequest, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	req, err := s.requestRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanReadRequest(actor, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *RequestService) CreateRequest(ctx context.Context, data dto.CreateRequestDTO) (*entities.MaintenanceRequest, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(actor, authz.RequestsCreate); err != nil {
		return nil, err
	}

	result, err := workflow.Admit(requestFromDTO(data), actor, s.clock())
	if err != nil {
		return nil, err
	}
	created := result.Request

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.requestRepo.Create(ctx, tx, &created); err != nil {
			return err
		}
		return s.activity.Append(ctx, tx,
			activityEntry(actor, constants.ActivityTypeRequest, constants.ActionCreate, created.ID, created.Subject, nil))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("maintenance request created",
		zap.String("request_id", created.ID),
		zap.String("status", created.Status),
		zap.String("user_id", actor.UserID),
	)
	s.bus.Publish(ctx, events.RequestCreatedEvent{Request: created, Actor: actor})

	if err := s.runDirectives(ctx, result); err != nil {
		return &created, err
	}
	return &created, nil
}

// UpdateRequest locks the row, filters the diff through the gate, applies the
// workflow rules and commits. Directives run after the commit.
func (s *RequestService) UpdateRequest(ctx context.Context, id string, data dto.UpdateRequestDTO) (*entities.MaintenanceRequest, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	var (
		result   workflow.Result
		previous string
	)
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.requestRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = current.Status

		diff, err := authz.FilterRequestWrite(actor, current, data)
		if err != nil {
			return err
		}
		if err := s.validator.Validate(&diff); err != nil {
			return err
		}

		result, err = workflow.Apply(*current, diff, actor, s.clock())
		if err != nil {
			return err
		}
		if err := s.requestRepo.Update(ctx, tx, &result.Request); err != nil {
			return err
		}
		return s.activity.Append(ctx, tx, updateEntry(actor, previous, result.Request))
	})
	if err != nil {
		return nil, err
	}

	updated := result.Request
	s.logger.Info("maintenance request updated",
		zap.String("request_id", id),
		zap.String("from", previous),
		zap.String("to", updated.Status),
		zap.String("user_id", actor.UserID),
	)
	s.bus.Publish(ctx, events.RequestUpdatedEvent{Request: updated, PreviousStatus: previous, Actor: actor})

	if err := s.runDirectives(ctx, result); err != nil {
		return &updated, err
	}
	return &updated, nil
}

func (s *RequestService) DeleteRequest(ctx context.Context, id string) error {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := authz.Require(actor, authz.RequestsDelete); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.requestRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.requestRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.activity.Append(ctx, tx,
			activityEntry(actor, constants.ActivityTypeRequest, constants.ActionDelete, id, current.Subject, nil))
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.RequestDeletedEvent{RequestID: id, Actor: actor})
	return nil
}

func (s *RequestService) runDirectives(ctx context.Context, result workflow.Result) error {
	d, ok := result.ScrapCascade()
	if !ok {
		return nil
	}
	if _, err := s.cascade.Execute(ctx, d); err != nil {
		s.logger.Error("request saved but scrap cascade failed",
			zap.String("request_id", d.RequestID),
			zap.String("equipment_id", d.EquipmentID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func updateEntry(actor dto.Actor, previous string, req entities.MaintenanceRequest) entities.ActivityLog {
	if previous != req.Status {
		details := fmt.Sprintf("Status changed from %s to %s", previous, req.Status)
		return activityEntry(actor, constants.ActivityTypeRequest, constants.ActionStatusChange, req.ID, req.Subject, &details)
	}
	return activityEntry(actor, constants.ActivityTypeRequest, constants.ActionUpdate, req.ID, req.Subject, nil)
}

func requestFromDTO(d dto.CreateRequestDTO) entities.MaintenanceRequest {
	return entities.MaintenanceRequest{
		ID:                   utils.NewID(),
		Subject:              d.Subject,
		Description:          d.Description,
		Type:                 d.Type,
		Priority:             d.Priority,
		EquipmentID:          d.EquipmentID,
		TeamID:               d.TeamID,
		AssignedTechnicianID: d.AssignedTechnicianID.Ptr(),
		Status:               d.Status,
		ScheduledDate:        d.ScheduledDate,
		CompletedDate:        d.CompletedDate.Ptr(),
		Duration:             d.Duration.Ptr(),
		Notes:                d.Notes.Ptr(),
	}
}
