package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/swiftship/swiftship-backend/api/responses"
	"github.com/swiftship/swiftship-backend/api/validators"
	"github.com/swiftship/swiftship-backend/internal/tenants"
	pkgerrors "github.com/swiftship/swiftship-backend/pkg/errors"
	"github.com/swiftship/swiftship-backend/pkg/logger"
)

type createTenantRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

// TenantCreate provisions a new tenant. Super-admin only.
func TenantCreate(svc tenants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireIdentity(w, r, logg)
		if !ok {
			return
		}

		var req createTenantRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tenant, err := svc.Create(r.Context(), actor, req.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, tenant)
	}
}

// TenantGet returns one tenant by id. Super-admin only.
func TenantGet(svc tenants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireIdentity(w, r, logg)
		if !ok {
			return
		}

		tenantID, err := uuid.Parse(chi.URLParam(r, "tenantId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tenant id"))
			return
		}

		tenant, err := svc.Get(r.Context(), actor, tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tenant)
	}
}

// TenantList returns every tenant. Super-admin only.
func TenantList(svc tenants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireIdentity(w, r, logg)
		if !ok {
			return
		}

		list, err := svc.List(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
