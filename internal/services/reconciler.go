package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/internal/events"
	"github.com/dcodingdev/gearguard/internal/repositories"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/eventbus"
)

// SystemActor is recorded on activity entries written by background jobs.
var SystemActor = dto.Actor{UserID: "system", Name: "System", Role: constants.RoleAdmin}

// ReconcileReport summarises one reconciler pass.
type ReconcileReport struct {
	Equipment int
	Cancelled int
}

type ReconcilerInterface interface {
	Run(ctx context.Context) (ReconcileReport, error)
}

// Reconciler finishes scrap cascades that stopped half way: any scrapped
// equipment that still has open requests gets those requests cancelled.
type Reconciler struct {
	requestRepo repositories.RequestRepositoryInterface
	activity    ActivityLoggerInterface
	bus         *eventbus.Bus
	clock       func() time.Time
	logger      *zap.Logger
}

func NewReconciler(
	requestRepo repositories.RequestRepositoryInterface,
	activity ActivityLoggerInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) ReconcilerInterface {
	return &Reconciler{requestRepo: requestRepo, activity: activity, bus: bus, clock: time.Now, logger: logger}
}

// Run keeps going past per-equipment failures and returns the first one.
func (r *Reconciler) Run(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport
	ids, err := r.requestRepo.FindScrappedEquipmentWithOpenRequests(ctx)
	if err != nil {
		return report, err
	}

	var firstErr error
	for _, equipmentID := range ids {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		cancelled, err := r.requestRepo.CancelOpenForEquipment(ctx, nil, equipmentID, "", r.clock().UTC())
		if err != nil {
			r.logger.Error("reconciler: cancel open requests failed", zap.String("equipment_id", equipmentID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if len(cancelled) == 0 {
			continue
		}
		report.Equipment++
		report.Cancelled += len(cancelled)

		details := "Open requests of scrapped equipment cancelled by reconciliation."
		entry := activityEntry(SystemActor, constants.ActivityTypeEquipment, constants.ActionStatusChange, equipmentID, equipmentID, &details)
		if err := r.activity.Append(ctx, nil, entry); err != nil && firstErr == nil {
			firstErr = err
		}
		r.bus.Publish(ctx, events.EquipmentScrappedEvent{
			EquipmentID:        equipmentID,
			CancelledRequestID: cancelled,
			Source:             CascadeSourceReconciler,
		})
	}

	if report.Cancelled > 0 {
		r.logger.Info("reconciler repaired partial scrap cascades",
			zap.Int("equipment", report.Equipment),
			zap.Int("cancelled", report.Cancelled),
		)
	}
	return report, firstErr
}
