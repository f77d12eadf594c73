package dto

import (
	"time"

	"github.com/dcodingdev/gearguard/internal/entities"

	"github.com/aarondl/null/v8"
)

type CreateEquipmentDTO struct {
	Name                 string      `json:"name" validate:"required,max=100"`
	SerialNumber         string      `json:"serial_number" validate:"required,max=50"`
	Category             string      `json:"category" validate:"required,equipment_category"`
	Department           string      `json:"department" validate:"required,department"`
	AssignedEmployeeID   null.String `json:"assigned_employee_id"`
	AssignedEmployeeName null.String `json:"assigned_employee_name"`
	MaintenanceTeamID    string      `json:"maintenance_team_id" validate:"required"`
	DefaultTechnicianID  null.String `json:"default_technician_id"`
	PurchaseDate         time.Time   `json:"purchase_date" validate:"required"`
	WarrantyExpiry       null.Time   `json:"warranty_expiry"`
	Location             string      `json:"location" validate:"required,max=200"`
	Status               string      `json:"status" validate:"omitempty,equipment_status"`
	Notes                null.String `json:"notes" validate:"omitempty,max=500"`
}

type UpdateEquipmentDTO struct {
	Name                 *string    `json:"name,omitempty" validate:"omitnil,min=1,max=100"`
	SerialNumber         *string    `json:"serial_number,omitempty" validate:"omitnil,min=1,max=50"`
	Category             *string    `json:"category,omitempty" validate:"omitnil,equipment_category"`
	Department           *string    `json:"department,omitempty" validate:"omitnil,department"`
	AssignedEmployeeID   *string    `json:"assigned_employee_id,omitempty"`
	AssignedEmployeeName *string    `json:"assigned_employee_name,omitempty"`
	MaintenanceTeamID    *string    `json:"maintenance_team_id,omitempty" validate:"omitnil,min=1"`
	DefaultTechnicianID  *string    `json:"default_technician_id,omitempty"`
	PurchaseDate         *time.Time `json:"purchase_date,omitempty"`
	WarrantyExpiry       *time.Time `json:"warranty_expiry,omitempty"`
	Location             *string    `json:"location,omitempty" validate:"omitnil,min=1,max=200"`
	Status               *string    `json:"status,omitempty" validate:"omitnil,equipment_status"`
	Notes                *string    `json:"notes,omitempty" validate:"omitnil,max=500"`
}

// EquipmentDetailsDTO is an equipment record together with its maintenance requests.
type EquipmentDetailsDTO struct {
	Equipment        *entities.Equipment           `json:"equipment"`
	Requests         []entities.MaintenanceRequest `json:"requests"`
	OpenRequestCount int                           `json:"open_request_count"`
}
