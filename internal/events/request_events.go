package events

import (
	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/internal/entities"
)

const (
	RequestCreated    = "request.created"
	RequestUpdated    = "request.updated"
	RequestDeleted    = "request.deleted"
	EquipmentChanged  = "equipment.changed"
	EquipmentScrapped = "equipment.scrapped"
)

type RequestCreatedEvent struct {
	Request entities.MaintenanceRequest
	Actor   dto.Actor
}

func (e RequestCreatedEvent) Name() string { return RequestCreated }

// RequestUpdatedEvent carries the status before the update, so listeners can tell transitions apart.
type RequestUpdatedEvent struct {
	Request        entities.MaintenanceRequest
	PreviousStatus string
	Actor          dto.Actor
}

func (e RequestUpdatedEvent) Name() string { return RequestUpdated }

func (e RequestUpdatedEvent) StatusChanged() bool {
	return e.PreviousStatus != e.Request.Status
}

type RequestDeletedEvent struct {
	RequestID string
	Actor     dto.Actor
}

func (e RequestDeletedEvent) Name() string { return RequestDeleted }

// EquipmentChangedEvent is published after equipment create, update or delete.
type EquipmentChangedEvent struct {
	EquipmentID string
	Action      string
}

func (e EquipmentChangedEvent) Name() string { return EquipmentChanged }

// EquipmentScrappedEvent is published after a scrap cascade finished.
type EquipmentScrappedEvent struct {
	EquipmentID        string
	TriggerRequestID   string
	CancelledRequestID []string
	Source             string
}

func (e EquipmentScrappedEvent) Name() string { return EquipmentScrapped }
