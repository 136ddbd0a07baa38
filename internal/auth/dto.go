package auth

import (
	"github.com/google/uuid"

	"github.com/swiftship/swiftship-backend/internal/users"
	"github.com/swiftship/swiftship-backend/pkg/enums"
)

// RegisterRequest captures the payload for onboarding a merchant, courier, or
// tenant admin account.
type RegisterRequest struct {
	FullName string         `json:"full_name" validate:"required"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=8"`
	Phone    *string        `json:"phone,omitempty"`
	Role     enums.UserRole `json:"role" validate:"required"`
	TenantID uuid.UUID      `json:"tenant_id" validate:"required"`

	// Merchant-only.
	BusinessName *string `json:"business_name,omitempty"`

	// Courier-only.
	VehicleType *string  `json:"vehicle_type,omitempty"`
	Zones       []string `json:"zones,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token pair and user produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest rotates a refresh session. The access token may be expired;
// it is only used to recover the session identifier.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse carries the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
