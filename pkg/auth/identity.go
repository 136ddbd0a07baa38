package auth

import (
	"github.com/google/uuid"

	"github.com/swiftship/swiftship-backend/pkg/enums"
)

// Identity is the authenticated actor attached to every request. TenantID is
// nil only for SUPER_ADMIN.
type Identity struct {
	UserID   uuid.UUID
	TenantID *uuid.UUID
	Role     enums.UserRole
}

// TenantScope describes how queries must be filtered for an identity.
type TenantScope struct {
	// All is true for SUPER_ADMIN: no tenant filter is applied.
	All bool
	// TenantID is the filter value when All is false.
	TenantID uuid.UUID
}

// Scope returns the tenant filter for the identity. SUPER_ADMIN sees every
// tenant; everyone else is confined to their own.
func (i Identity) Scope() TenantScope {
	if i.Role == enums.UserRoleSuperAdmin {
		return TenantScope{All: true}
	}
	if i.TenantID == nil {
		// A non-super-admin without a tenant can never match any row.
		return TenantScope{TenantID: uuid.Nil}
	}
	return TenantScope{TenantID: *i.TenantID}
}

// CanAccessTenant reports whether the identity may touch rows of tenantID.
func (i Identity) CanAccessTenant(tenantID uuid.UUID) bool {
	scope := i.Scope()
	if scope.All {
		return true
	}
	return scope.TenantID == tenantID
}
