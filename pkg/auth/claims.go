package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/swiftship/swiftship-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	TenantID *uuid.UUID
	Role     enums.UserRole
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients. TenantID is
// omitted for SUPER_ADMIN tokens.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"user_id"`
	TenantID *uuid.UUID     `json:"tenant_id,omitempty"`
	Role     enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts claims into the request identity used by services.
func (c *AccessTokenClaims) Identity() Identity {
	return Identity{
		UserID:   c.UserID,
		TenantID: c.TenantID,
		Role:     c.Role,
	}
}
