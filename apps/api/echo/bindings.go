package echoapi

import "github.com/trezcool/shule/core"

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Username = core.CleanString(r.Username, true /* lower */)
	return core.Validate.Struct(r)
}

type LoginResponse struct {
	Token string `json:"token"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *PasswordResetRequest) Validate() error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return core.Validate.Struct(r)
}

type RoleResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ViewResponse struct {
	View     string `json:"view"`
	Role     string `json:"role"`
	SchoolID string `json:"school_id,omitempty"`
}
