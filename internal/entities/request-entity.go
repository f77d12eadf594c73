package entities

import (
	"time"

	"github.com/dcodingdev/gearguard/pkg/types"
)

// MaintenanceRequest is a unit of maintenance work tracked through the status workflow.
type MaintenanceRequest struct {
	ID                   string     `json:"id"`
	Subject              string     `json:"subject"`
	Description          string     `json:"description"`
	Type                 string     `json:"type"`
	Priority             string     `json:"priority"`
	EquipmentID          string     `json:"equipment_id"`
	TeamID               string     `json:"team_id"`
	AssignedTechnicianID *string    `json:"assigned_technician_id,omitempty"`
	Status               string     `json:"status"`
	ScheduledDate        time.Time  `json:"scheduled_date"`
	CompletedDate        *time.Time `json:"completed_date,omitempty"`
	Duration             *float64   `json:"duration,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
	CreatedBy            string     `json:"created_by"`

	types.BaseEntity
}

// Clone returns a deep copy, so pointer fields of the copy can be replaced freely.
func (r MaintenanceRequest) Clone() MaintenanceRequest {
	c := r
	c.AssignedTechnicianID = clonePtr(r.AssignedTechnicianID)
	c.CompletedDate = clonePtr(r.CompletedDate)
	c.Duration = clonePtr(r.Duration)
	c.Notes = clonePtr(r.Notes)
	c.CreatedAt = clonePtr(r.CreatedAt)
	c.UpdatedAt = clonePtr(r.UpdatedAt)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
