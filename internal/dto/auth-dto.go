package dto

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

type RegisterDTO struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponseDTO struct {
	AccessToken string        `json:"access_token"`
	User        UserPublicDTO `json:"user"`
}

type UserPublicDTO struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	TeamID *string `json:"team_id,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}
