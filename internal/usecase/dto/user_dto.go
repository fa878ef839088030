package dto

import (
	"github.com/nutrilab/imc-registry/internal/domain/model"
)

// UserCreate is the Administrator payload for provisioning an account.
type UserCreate struct {
	Username string         `json:"username" validate:"required,max=100"`
	Email    string         `json:"email" validate:"required,email,max=150"`
	Password string         `json:"password" validate:"required"`
	Role     model.UserRole `json:"role" validate:"required,oneof=Administrator Quality User"`
}

// UserUpdate is a partial patch over the mutable account fields.
type UserUpdate struct {
	Username            *string           `json:"username,omitempty" validate:"omitempty,max=100"`
	Email               *string           `json:"email,omitempty" validate:"omitempty,email,max=150"`
	Role                *model.UserRole   `json:"role,omitempty" validate:"omitempty,oneof=Administrator Quality User"`
	Status              *model.UserStatus `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive"`
	ForcePasswordChange *bool             `json:"force_password_change,omitempty"`
}

// PasswordReset is the Administrator payload for resetting a password. The
// minimum length comes from config and is enforced by the services.
type PasswordReset struct {
	NewPassword string `json:"new_password" validate:"required"`
}

// PasswordChange is the self-service payload for changing a password.
type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}
