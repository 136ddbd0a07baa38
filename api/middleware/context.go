package middleware

import (
	"context"

	pkgAuth "github.com/swiftship/swiftship-backend/pkg/auth"
)

type contextKey string

const (
	ctxIdentity contextKey = "identity"
	ctxUserID   contextKey = "user_id"
	ctxRole     contextKey = "actor_role"
	ctxTenantID contextKey = "tenant_id"
)

// IdentityFromContext returns the authenticated actor seeded by the Auth
// middleware, or nil when the request is unauthenticated.
func IdentityFromContext(ctx context.Context) *pkgAuth.Identity {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxIdentity).(*pkgAuth.Identity); ok {
		return v
	}
	return nil
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func TenantIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxTenantID).(string); ok {
		return v
	}
	return ""
}

// WithIdentity injects the actor into the context for downstream handlers.
func WithIdentity(ctx context.Context, identity *pkgAuth.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if identity == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, ctxIdentity, identity)
	ctx = context.WithValue(ctx, ctxUserID, identity.UserID.String())
	ctx = context.WithValue(ctx, ctxRole, string(identity.Role))
	if identity.TenantID != nil {
		ctx = context.WithValue(ctx, ctxTenantID, identity.TenantID.String())
	}
	return ctx
}
