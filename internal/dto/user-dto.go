package dto

import "github.com/aarondl/null/v8"

type CreateUserDTO struct {
	Name     string      `json:"name" validate:"required,min=2,max=100"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     string      `json:"role" validate:"required,user_role"`
	TeamID   null.String `json:"team_id"`
	Avatar   null.String `json:"avatar" validate:"omitempty,url"`
}

type UpdateUserDTO struct {
	Name     *string `json:"name,omitempty" validate:"omitnil,min=2,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitnil,email"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=6"`
	Role     *string `json:"role,omitempty" validate:"omitnil,user_role"`
	TeamID   *string `json:"team_id,omitempty"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitnil,url"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// OnlySelfEditable reports whether the update touches only fields a user may change on their own account.
func (d UpdateUserDTO) OnlySelfEditable() bool {
	return d.Role == nil && d.TeamID == nil && d.IsActive == nil
}
