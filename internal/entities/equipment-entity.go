package entities

import (
	"time"

	"github.com/dcodingdev/gearguard/pkg/types"
)

type Equipment struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	SerialNumber         string     `json:"serial_number"`
	Category             string     `json:"category"`
	Department           string     `json:"department"`
	AssignedEmployeeID   *string    `json:"assigned_employee_id,omitempty"`
	AssignedEmployeeName *string    `json:"assigned_employee_name,omitempty"`
	MaintenanceTeamID    string     `json:"maintenance_team_id"`
	DefaultTechnicianID  *string    `json:"default_technician_id,omitempty"`
	PurchaseDate         time.Time  `json:"purchase_date"`
	WarrantyExpiry       *time.Time `json:"warranty_expiry,omitempty"`
	Location             string     `json:"location"`
	Status               string     `json:"status"`
	Notes                *string    `json:"notes,omitempty"`
	IsScraped            bool       `json:"is_scraped"`
	ScrapReason          *string    `json:"scrap_reason,omitempty"`

	types.BaseEntity
}
