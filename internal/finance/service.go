package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftship/swiftship-backend/pkg/auth"
	"github.com/swiftship/swiftship-backend/pkg/db/models"
	"github.com/swiftship/swiftship-backend/pkg/enums"
	pkgerrors "github.com/swiftship/swiftship-backend/pkg/errors"
	"github.com/swiftship/swiftship-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns every mutation of merchant balances and courier wallets.
// ApplyDeliveryLedger is the only path that credits them, and it only runs
// inside the delivery transition transaction.
type Service interface {
	ApplyDeliveryLedger(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetMerchantBalance(ctx context.Context, actor auth.Identity, merchantID uuid.UUID) (*MerchantBalanceView, error)
	GetCourierWallet(ctx context.Context, actor auth.Identity, courierID uuid.UUID) (*CourierWalletView, error)
	DeductCourierWallet(ctx context.Context, input DeductWalletInput) (*CourierWalletView, error)
	RecalculateMerchantBalance(ctx context.Context, actor auth.Identity, merchantID uuid.UUID) (*MerchantBalanceView, error)
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService wires the finance service. Logger is optional.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("finance repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) ApplyDeliveryLedger(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "ledger mutation requires a transaction")
	}
	repo := s.repo.WithTx(tx)

	// Merchant is credited the collected cash minus the delivery price. The
	// delta can be negative when the price exceeds the COD amount.
	merchantDelta := order.CODAmount.Sub(order.Price)
	rows, err := repo.AddToMerchantBalance(ctx, order.MerchantID, merchantDelta)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "crediting merchant balance")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeLedgerTargetMissing, "merchant profile missing for delivered order").
			WithDetails(map[string]string{
				"order_id":    order.ID.String(),
				"merchant_id": order.MerchantID.String(),
			})
	}

	// The courier holds the full COD cash until settled through the payout
	// flow. Settlement is not netted out here.
	if order.CourierID != nil {
		rows, err = repo.AddToCourierWallet(ctx, *order.CourierID, order.CODAmount)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "crediting courier wallet")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeLedgerTargetMissing, "courier profile missing for delivered order").
				WithDetails(map[string]string{
					"order_id":   order.ID.String(),
					"courier_id": order.CourierID.String(),
				})
		}
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id":       order.ID.String(),
			"merchant_delta": merchantDelta.String(),
			"cod_amount":     order.CODAmount.String(),
		})
		s.logg.Info(logCtx, "delivery ledger applied")
	}
	return nil
}

func (s *service) GetMerchantBalance(ctx context.Context, actor auth.Identity, merchantID uuid.UUID) (*MerchantBalanceView, error) {
	merchant, err := s.repo.FindMerchantByID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading merchant profile")
	}
	if !actor.CanAccessTenant(merchant.TenantID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant profile not found")
	}
	if actor.Role == enums.UserRoleMerchant && merchant.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "merchants can only view their own balance")
	}
	if actor.Role == enums.UserRoleCourier {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "couriers cannot view merchant balances")
	}
	return &MerchantBalanceView{MerchantID: merchant.ID, Balance: merchant.Balance}, nil
}

func (s *service) GetCourierWallet(ctx context.Context, actor auth.Identity, courierID uuid.UUID) (*CourierWalletView, error) {
	courier, err := s.repo.FindCourierByID(ctx, courierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "courier profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading courier profile")
	}
	if !actor.CanAccessTenant(courier.TenantID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "courier profile not found")
	}
	if actor.Role == enums.UserRoleCourier && courier.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "couriers can only view their own wallet")
	}
	if actor.Role == enums.UserRoleMerchant {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "merchants cannot view courier wallets")
	}
	return &CourierWalletView{CourierID: courier.ID, Wallet: courier.WalletBalance}, nil
}

func (s *service) DeductCourierWallet(ctx context.Context, input DeductWalletInput) (*CourierWalletView, error) {
	if input.Actor.Role != enums.UserRoleAdmin && input.Actor.Role != enums.UserRoleSuperAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can settle courier wallets")
	}
	if input.Amount.IsZero() || input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "settlement amount must be positive").
			WithDetails(map[string]string{"amount": input.Amount.String()})
	}

	var view *CourierWalletView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		courier, err := repo.FindCourierByIDForUpdate(ctx, input.CourierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "courier profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading courier profile")
		}
		if !input.Actor.CanAccessTenant(courier.TenantID) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "courier profile not found")
		}
		if courier.WalletBalance.LessThan(input.Amount) {
			return pkgerrors.New(pkgerrors.CodeValidation, "insufficient wallet balance").
				WithDetails(map[string]string{
					"wallet": courier.WalletBalance.String(),
					"amount": input.Amount.String(),
				})
		}

		if _, err := repo.AddToCourierWallet(ctx, courier.ID, input.Amount.Neg()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debiting courier wallet")
		}
		view = &CourierWalletView{
			CourierID: courier.ID,
			Wallet:    courier.WalletBalance.Sub(input.Amount),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"courier_id": input.CourierID.String(),
			"amount":     input.Amount.String(),
		})
		s.logg.Info(logCtx, "courier wallet settled")
	}
	return view, nil
}

func (s *service) RecalculateMerchantBalance(ctx context.Context, actor auth.Identity, merchantID uuid.UUID) (*MerchantBalanceView, error) {
	if actor.Role != enums.UserRoleAdmin && actor.Role != enums.UserRoleSuperAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can recalculate balances")
	}

	var view *MerchantBalanceView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		merchant, err := repo.FindMerchantByIDForUpdate(ctx, merchantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "merchant profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading merchant profile")
		}
		if !actor.CanAccessTenant(merchant.TenantID) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "merchant profile not found")
		}

		total, err := repo.SumDeliveredForMerchant(ctx, merchant.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summing delivered orders")
		}
		if err := repo.SetMerchantBalance(ctx, merchant.ID, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating merchant balance")
		}
		view = &MerchantBalanceView{MerchantID: merchant.ID, Balance: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
