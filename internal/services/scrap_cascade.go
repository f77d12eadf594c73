package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/core/workflow"
	"github.com/dcodingdev/gearguard/internal/events"
	"github.com/dcodingdev/gearguard/internal/repositories"
	"github.com/dcodingdev/gearguard/pkg/constants"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
	"github.com/dcodingdev/gearguard/pkg/eventbus"
	"github.com/dcodingdev/gearguard/pkg/metrics"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

const (
	CascadeSourceRequest    = "cascade"
	CascadeSourceReconciler = "reconciler"
)

// CascadeOutcome reports what a cascade run changed.
type CascadeOutcome struct {
	EquipmentFound      bool
	EquipmentScrapped   bool
	CancelledRequestIDs []string
	Logged              bool
}

type ScrapCascadeServiceInterface interface {
	Execute(ctx context.Context, d workflow.ScrapCascade) (CascadeOutcome, error)
}

// ScrapCascadeService carries out a ScrapCascade directive. The steps are
// committed one by one; a failure leaves the earlier steps in place.
type ScrapCascadeService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	requestRepo   repositories.RequestRepositoryInterface
	activity      ActivityLoggerInterface
	bus           *eventbus.Bus
	metrics       *metrics.Metrics
	clock         func() time.Time
	logger        *zap.Logger
}

func NewScrapCascadeService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	activity ActivityLoggerInterface,
	bus *eventbus.Bus,
	m *metrics.Metrics,
	logger *zap.Logger,
) ScrapCascadeServiceInterface {
	return &ScrapCascadeService{
		equipmentRepo: equipmentRepo,
		requestRepo:   requestRepo,
		activity:      activity,
		bus:           bus,
		metrics:       m,
		clock:         time.Now,
		logger:        logger,
	}
}

func ScrapReason(subject string) string {
	return "Scrapped via maintenance request: " + subject
}

func ScrapLogDetails(subject string) string {
	return fmt.Sprintf("Equipment marked as scrapped due to maintenance request: %s. Other open requests cancelled.", subject)
}

func (s *ScrapCascadeService) Execute(ctx context.Context, d workflow.ScrapCascade) (CascadeOutcome, error) {
	var out CascadeOutcome
	log := s.logger.With(
		zap.String("equipment_id", d.EquipmentID),
		zap.String("request_id", d.RequestID),
	)

	equipment, err := s.equipmentRepo.FindByID(ctx, nil, d.EquipmentID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		log.Warn("scrap cascade: equipment not found, skipping equipment update")
	case err != nil:
		return out, s.fail(log, "find equipment", err)
	default:
		out.EquipmentFound = true
	}

	now := s.clock().UTC()
	if out.EquipmentFound && equipment.Status != constants.EquipmentStatusScrapped {
		changed, err := s.equipmentRepo.MarkScrapped(ctx, nil, d.EquipmentID, ScrapReason(d.Subject), now)
		if err != nil {
			return out, s.fail(log, "mark equipment scrapped", err)
		}
		out.EquipmentScrapped = changed
	}

	cancelled, err := s.requestRepo.CancelOpenForEquipment(ctx, nil, d.EquipmentID, d.RequestID, now)
	if err != nil {
		return out, s.fail(log, "cancel sibling requests", err)
	}
	out.CancelledRequestIDs = cancelled

	if out.EquipmentFound {
		details := ScrapLogDetails(d.Subject)
		entry := activityEntry(d.Actor, constants.ActivityTypeEquipment, constants.ActionStatusChange, d.EquipmentID, equipment.Name, &details)
		if err := s.activity.Append(ctx, nil, entry); err != nil {
			return out, s.fail(log, "append scrap log", err)
		}
		out.Logged = true
	}

	s.metrics.CascadeExecuted()
	s.bus.Publish(ctx, events.EquipmentScrappedEvent{
		EquipmentID:        d.EquipmentID,
		TriggerRequestID:   d.RequestID,
		CancelledRequestID: cancelled,
		Source:             CascadeSourceRequest,
	})
	log.Info("scrap cascade finished",
		zap.Bool("equipment_scrapped", out.EquipmentScrapped),
		zap.Strings("cancelled", cancelled),
		zap.String("trace_id", utils.GetRequestIDFromCtx(ctx)),
	)
	return out, nil
}

func (s *ScrapCascadeService) fail(log *zap.Logger, step string, err error) error {
	s.metrics.CascadeFailed()
	log.Error("scrap cascade stopped, earlier steps stay applied", zap.String("step", step), zap.Error(err))
	return apperrors.NewStorageError("scrap cascade: "+step, err)
}
