package controllers

import (
	"net/http"

	"github.com/swiftship/swiftship-backend/api/middleware"
	"github.com/swiftship/swiftship-backend/api/responses"
	pkgAuth "github.com/swiftship/swiftship-backend/pkg/auth"
	pkgerrors "github.com/swiftship/swiftship-backend/pkg/errors"
	"github.com/swiftship/swiftship-backend/pkg/logger"
)

// requireIdentity pulls the authenticated actor from the request context and
// writes the 401 itself when the Auth middleware did not run.
func requireIdentity(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (pkgAuth.Identity, bool) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
		return pkgAuth.Identity{}, false
	}
	return *identity, true
}
