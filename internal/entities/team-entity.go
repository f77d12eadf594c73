package entities

import "github.com/dcodingdev/gearguard/pkg/types"

type MaintenanceTeam struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Specialization string       `json:"specialization"`
	Description    *string      `json:"description,omitempty"`
	Members        []TeamMember `json:"members"`

	types.BaseEntity
}

type TeamMember struct {
	ID          string  `json:"id"`
	TeamID      string  `json:"team_id"`
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	Role        string  `json:"role"`
	IsAvailable bool    `json:"is_available"`
	Position    int     `json:"-"`
}
