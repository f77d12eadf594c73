package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateRequestDTO struct {
	Subject              string       `json:"subject" validate:"required,max=200"`
	Description          string       `json:"description" validate:"required,max=2000"`
	Type                 string       `json:"type" validate:"required,request_type"`
	Priority             string       `json:"priority" validate:"required,request_priority"`
	EquipmentID          string       `json:"equipment_id" validate:"required"`
	TeamID               string       `json:"team_id" validate:"required"`
	AssignedTechnicianID null.String  `json:"assigned_technician_id"`
	Status               string       `json:"status" validate:"omitempty,request_status"`
	ScheduledDate        time.Time    `json:"scheduled_date" validate:"required"`
	CompletedDate        null.Time    `json:"completed_date"`
	Duration             null.Float64 `json:"duration" validate:"omitempty,gte=0"`
	Notes                null.String  `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateRequestDTO is a partial update: nil fields are left untouched.
type UpdateRequestDTO struct {
	Subject              *string    `json:"subject,omitempty" validate:"omitnil,min=1,max=200"`
	Description          *string    `json:"description,omitempty" validate:"omitnil,min=1,max=2000"`
	Type                 *string    `json:"type,omitempty" validate:"omitnil,request_type"`
	Priority             *string    `json:"priority,omitempty" validate:"omitnil,request_priority"`
	EquipmentID          *string    `json:"equipment_id,omitempty" validate:"omitnil,min=1"`
	TeamID               *string    `json:"team_id,omitempty" validate:"omitnil,min=1"`
	AssignedTechnicianID *string    `json:"assigned_technician_id,omitempty"`
	Status               *string    `json:"status,omitempty" validate:"omitnil,request_status"`
	ScheduledDate        *time.Time `json:"scheduled_date,omitempty"`
	CompletedDate        *time.Time `json:"completed_date,omitempty"`
	Duration             *float64   `json:"duration,omitempty" validate:"omitnil,gte=0"`
	Notes                *string    `json:"notes,omitempty" validate:"omitnil,max=1000"`
}

// Fields lists the json names of the fields present in the update.
func (d UpdateRequestDTO) Fields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(d.Subject != nil, "subject")
	add(d.Description != nil, "description")
	add(d.Type != nil, "type")
	add(d.Priority != nil, "priority")
	add(d.EquipmentID != nil, "equipment_id")
	add(d.TeamID != nil, "team_id")
	add(d.AssignedTechnicianID != nil, "assigned_technician_id")
	add(d.Status != nil, "status")
	add(d.ScheduledDate != nil, "scheduled_date")
	add(d.CompletedDate != nil, "completed_date")
	add(d.Duration != nil, "duration")
	add(d.Notes != nil, "notes")
	return fields
}

func (d UpdateRequestDTO) IsEmpty() bool { return len(d.Fields()) == 0 }
