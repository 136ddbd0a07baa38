package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftship/swiftship-backend/pkg/auth"
	dbpkg "github.com/swiftship/swiftship-backend/pkg/db"
	"github.com/swiftship/swiftship-backend/pkg/db/models"
	"github.com/swiftship/swiftship-backend/pkg/enums"
	pkgerrors "github.com/swiftship/swiftship-backend/pkg/errors"
	"github.com/swiftship/swiftship-backend/pkg/logger"
	"github.com/swiftship/swiftship-backend/pkg/metrics"
	"github.com/swiftship/swiftship-backend/pkg/outbox"
	"github.com/swiftship/swiftship-backend/pkg/outbox/payloads"
	"github.com/swiftship/swiftship-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service is the order lifecycle engine. Every status change, courier
// assignment, and delivery ledger application goes through here.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Assign(ctx context.Context, input AssignCourierInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	Get(ctx context.Context, actor auth.Identity, orderID uuid.UUID) (*OrderDetail, error)
	GetByTrackingCode(ctx context.Context, actor auth.Identity, code string) (*OrderDetail, error)
	List(ctx context.Context, actor auth.Identity, params pagination.Params, filters ListFilters) (*OrderList, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	outbox    outboxPublisher
	ledger    DeliveryLedger
	couriers  CourierDirectory
	merchants MerchantDirectory
	metrics   *metrics.OrderMetrics
	logg      *logger.Logger
}

// NewService wires the lifecycle engine. Metrics and logger are optional.
func NewService(
	repo Repository,
	tx txRunner,
	outboxSvc outboxPublisher,
	ledger DeliveryLedger,
	couriers CourierDirectory,
	merchants MerchantDirectory,
	orderMetrics *metrics.OrderMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("delivery ledger is required")
	}
	if couriers == nil {
		return nil, fmt.Errorf("courier directory is required")
	}
	if merchants == nil {
		return nil, fmt.Errorf("merchant directory is required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		outbox:    outboxSvc,
		ledger:    ledger,
		couriers:  couriers,
		merchants: merchants,
		metrics:   orderMetrics,
		logg:      logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.Actor.Role != enums.UserRoleMerchant && input.Actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only merchants and admins can create orders")
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	merchant, err := s.resolveMerchant(ctx, input)
	if err != nil {
		return nil, err
	}
	if !input.Actor.CanAccessTenant(merchant.TenantID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "merchant belongs to another tenant")
	}

	trackingCode, err := NewTrackingCode()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating tracking code")
	}

	order := &models.Order{
		TenantID:       merchant.TenantID,
		TrackingCode:   trackingCode,
		MerchantID:     merchant.ID,
		Status:         enums.OrderStatusCreated,
		RecipientName:  input.RecipientName,
		RecipientPhone: input.RecipientPhone,
		Address:        input.Address,
		City:           input.City,
		CODAmount:      input.CODAmount,
		Price:          input.Price,
		Notes:          input.Notes,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
		}
		order = created
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(input.Actor),
			Data: payloads.OrderCreatedEvent{
				OrderID:      order.ID,
				TenantID:     order.TenantID,
				TrackingCode: order.TrackingCode,
				MerchantID:   order.MerchantID,
				CODAmount:    order.CODAmount.String(),
				Price:        order.Price.String(),
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id":      order.ID.String(),
			"tracking_code": order.TrackingCode,
		})
		s.logg.Info(logCtx, "order created")
	}
	return order, nil
}

func (s *service) Assign(ctx context.Context, input AssignCourierInput) (*models.Order, error) {
	// Assignment is tenant-bound; even super-admins do not assign couriers.
	if input.Actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can assign couriers")
	}
	scope := input.Actor.Scope()

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
		}
		if !input.Actor.CanAccessTenant(found.TenantID) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}

		courier, err := s.couriers.FindCourierByID(ctx, input.CourierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "courier not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading courier")
		}
		if courier.TenantID != scope.TenantID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "courier belongs to another tenant")
		}

		if found.Status != enums.OrderStatusCreated {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "order can only be assigned from CREATED").
				WithDetails(map[string]string{
					"from": found.Status.String(),
					"to":   enums.OrderStatusAssigned.String(),
				})
		}

		updates := map[string]any{
			"courier_id": courier.ID,
			"status":     enums.OrderStatusAssigned,
		}
		if err := repo.Update(ctx, found.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assigning courier")
		}

		from := found.Status
		if err := repo.AppendHistory(ctx, &models.OrderHistory{
			OrderID:     found.ID,
			TenantID:    found.TenantID,
			StatusFrom:  &from,
			StatusTo:    enums.OrderStatusAssigned,
			ChangedByID: input.Actor.UserID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "appending order history")
		}

		found.CourierID = &courier.ID
		found.Status = enums.OrderStatusAssigned
		order = found

		// order_assigned fires at most once per order; the dedup emit plus
		// the partial unique index keep a replayed assignment from queueing
		// a second event.
		return s.outbox.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderAssigned,
			AggregateType: enums.AggregateOrder,
			AggregateID:   found.ID,
			Actor:         buildActor(input.Actor),
			Data: payloads.OrderAssignedEvent{
				OrderID:      found.ID,
				TenantID:     found.TenantID,
				TrackingCode: found.TrackingCode,
				CourierID:    courier.ID,
				AssignedByID: input.Actor.UserID,
			},
			Version: 1,
		})
	})
	if err != nil {
		s.metrics.IncTransitionFailure(failureReason(err))
		return nil, err
	}

	s.metrics.IncTransition(enums.OrderStatusCreated.String(), enums.OrderStatusAssigned.String())
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	switch input.Actor.Role {
	case enums.UserRoleAdmin, enums.UserRoleCourier, enums.UserRoleSuperAdmin:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot update order status")
	}
	if !input.NewStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]string{"status": string(input.NewStatus)})
	}

	start := time.Now()
	var (
		order         *models.Order
		fromStatus    enums.OrderStatus
		ledgerApplied bool
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
		}
		// Tenant scope is re-checked here regardless of role; a role check at
		// the router does not stop cross-tenant ids.
		if !input.Actor.CanAccessTenant(found.TenantID) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}

		fromStatus = found.Status
		if !found.Status.CanTransitionTo(input.NewStatus) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "status transition not allowed").
				WithDetails(map[string]string{
					"from": found.Status.String(),
					"to":   input.NewStatus.String(),
				})
		}

		if err := repo.Update(ctx, found.ID, map[string]any{"status": input.NewStatus}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating order status")
		}

		from := found.Status
		if err := repo.AppendHistory(ctx, &models.OrderHistory{
			OrderID:     found.ID,
			TenantID:    found.TenantID,
			StatusFrom:  &from,
			StatusTo:    input.NewStatus,
			ChangedByID: input.Actor.UserID,
			Note:        input.Note,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "appending order history")
		}

		if input.NewStatus == enums.OrderStatusDelivered {
			if err := s.ledger.ApplyDeliveryLedger(ctx, tx, found); err != nil {
				return err
			}
			ledgerApplied = true
		}

		found.Status = input.NewStatus
		order = found

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStateChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   found.ID,
			Actor:         buildActor(input.Actor),
			Data: payloads.OrderStateChangedEvent{
				OrderID:       found.ID,
				TenantID:      found.TenantID,
				MerchantID:    found.MerchantID,
				TrackingCode:  found.TrackingCode,
				FromStatus:    fromStatus,
				ToStatus:      input.NewStatus,
				ChangedByID:   input.Actor.UserID,
				LedgerApplied: ledgerApplied,
				ChangedAt:     time.Now().UTC(),
			},
			Version: 1,
		})
	})
	if err != nil {
		if dbpkg.IsSerializationFailure(err) {
			err = pkgerrors.Wrap(pkgerrors.CodeConcurrencyConflict, err, "concurrent order update, retry")
		}
		s.metrics.IncTransitionFailure(failureReason(err))
		return nil, err
	}

	s.metrics.IncTransition(fromStatus.String(), input.NewStatus.String())
	s.metrics.ObserveTransition(input.NewStatus.String(), time.Since(start))
	if ledgerApplied {
		s.metrics.IncLedgerApplication()
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id":       order.ID.String(),
			"from_status":    fromStatus.String(),
			"to_status":      input.NewStatus.String(),
			"ledger_applied": ledgerApplied,
		})
		s.logg.Info(logCtx, "order status changed")
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, actor auth.Identity, orderID uuid.UUID) (*OrderDetail, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	if err := s.authorizeRead(ctx, actor, order); err != nil {
		return nil, err
	}

	history, err := s.repo.ListHistory(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order history")
	}
	return &OrderDetail{Order: *order, History: history}, nil
}

func (s *service) GetByTrackingCode(ctx context.Context, actor auth.Identity, code string) (*OrderDetail, error) {
	order, err := s.repo.FindByTrackingCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	if err := s.authorizeRead(ctx, actor, order); err != nil {
		return nil, err
	}

	history, err := s.repo.ListHistory(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order history")
	}
	return &OrderDetail{Order: *order, History: history}, nil
}

func (s *service) List(ctx context.Context, actor auth.Identity, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if params.Cursor != "" {
		if _, err := pagination.ParseCursor(params.Cursor); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
	}
	if actor.Role == enums.UserRoleMerchant {
		merchant, err := s.merchants.FindMerchantByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant profile not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading merchant profile")
		}
		filters.MerchantID = &merchant.ID
	}

	list, err := s.repo.List(ctx, actor.Scope(), params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return list, nil
}

// authorizeRead applies tenant scoping plus the merchant own-orders narrowing.
func (s *service) authorizeRead(ctx context.Context, actor auth.Identity, order *models.Order) error {
	if !actor.CanAccessTenant(order.TenantID) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if actor.Role == enums.UserRoleMerchant {
		merchant, err := s.merchants.FindMerchantByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "merchant profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading merchant profile")
		}
		if order.MerchantID != merchant.ID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
	}
	return nil
}

func (s *service) resolveMerchant(ctx context.Context, input CreateOrderInput) (*models.MerchantProfile, error) {
	if input.Actor.Role == enums.UserRoleMerchant {
		merchant, err := s.merchants.FindMerchantByUserID(ctx, input.Actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant profile not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading merchant profile")
		}
		return merchant, nil
	}

	if input.MerchantID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required").
			WithDetails(map[string]string{"field": "merchant_id"})
	}
	merchant, err := s.merchants.FindMerchantByID(ctx, *input.MerchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading merchant profile")
	}
	return merchant, nil
}

func validateCreateInput(input CreateOrderInput) error {
	missing := make([]string, 0, 4)
	if input.RecipientName == "" {
		missing = append(missing, "recipient_name")
	}
	if input.RecipientPhone == "" {
		missing = append(missing, "recipient_phone")
	}
	if input.Address == "" {
		missing = append(missing, "address")
	}
	if input.City == "" {
		missing = append(missing, "city")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]any{"fields": missing})
	}
	if input.CODAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeInvalidAmount, "cod amount cannot be negative").
			WithDetails(map[string]string{"cod_amount": input.CODAmount.String()})
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeInvalidAmount, "price cannot be negative").
			WithDetails(map[string]string{"price": input.Price.String()})
	}
	return nil
}

func buildActor(actor auth.Identity) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID:   actor.UserID,
		TenantID: actor.TenantID,
		Role:     actor.Role.String(),
	}
}

func failureReason(err error) string {
	if appErr := pkgerrors.As(err); appErr != nil {
		return string(appErr.Code())
	}
	return "internal"
}
