package dto

import "github.com/aarondl/null/v8"

type CreateTeamDTO struct {
	Name           string      `json:"name" validate:"required,max=100"`
	Specialization string      `json:"specialization" validate:"required,max=100"`
	Description    null.String `json:"description" validate:"omitempty,max=500"`
}

type UpdateTeamDTO struct {
	Name           *string `json:"name,omitempty" validate:"omitnil,min=1,max=100"`
	Specialization *string `json:"specialization,omitempty" validate:"omitnil,min=1,max=100"`
	Description    *string `json:"description,omitempty" validate:"omitnil,max=500"`
}

type AddTeamMemberDTO struct {
	UserID      string      `json:"user_id" validate:"required"`
	Name        string      `json:"name" validate:"required,max=100"`
	Email       string      `json:"email" validate:"required,email"`
	Phone       null.String `json:"phone" validate:"omitempty,max=30"`
	Role        string      `json:"role" validate:"required,member_role"`
	IsAvailable *bool       `json:"is_available"`
}
