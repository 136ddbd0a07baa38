package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/swiftship/swiftship-backend/api/responses"
	"github.com/swiftship/swiftship-backend/api/validators"
	"github.com/swiftship/swiftship-backend/internal/finance"
	pkgerrors "github.com/swiftship/swiftship-backend/pkg/errors"
	"github.com/swiftship/swiftship-backend/pkg/logger"
	"github.com/swiftship/swiftship-backend/pkg/money"
)

type deductWalletRequest struct {
	Amount string  `json:"amount" validate:"required"`
	Note   *string `json:"note,omitempty"`
}

// MerchantBalance returns the running ledger balance for a merchant profile.
func MerchantBalance(svc finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireIdentity(w, r, logg)
		if !ok {
			return
		}

		merchantID, err := uuid.Parse(chi.URLParam(r, "merchantId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid merchant id"))
			return
		}

		view, err := svc.GetMerchantBalance(r.Context(), actor, merchantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CourierWallet returns the cash-on-delivery wallet for a courier profile.
func CourierWallet(svc finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireIdentity(w, r, logg)
		if !ok {
			return
		}

		courierID, err := uuid.Parse(chi.URLParam(r, "courierId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid courier id"))
			return
		}

		view, err := svc.GetCourierWallet(r.Context(), actor, courierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CourierWalletDeduct settles collected cash out of a courier wallet.
func CourierWalletDeduct(svc finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireIdentity(w, r, logg)
		if !ok {
			return
		}

		courierID, err := uuid.Parse(chi.URLParam(r, "courierId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid courier id"))
			return
		}

		var req deductWalletRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := money.FromString(req.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidAmount, err, "invalid amount"))
			return
		}

		view, err := svc.DeductCourierWallet(r.Context(), finance.DeductWalletInput{
			Actor:     actor,
			CourierID: courierID,
			Amount:    amount,
			Note:      req.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// MerchantBalanceRecalculate rebuilds a merchant balance from delivered orders.
func MerchantBalanceRecalculate(svc finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireIdentity(w, r, logg)
		if !ok {
			return
		}

		merchantID, err := uuid.Parse(chi.URLParam(r, "merchantId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid merchant id"))
			return
		}

		view, err := svc.RecalculateMerchantBalance(r.Context(), actor, merchantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
