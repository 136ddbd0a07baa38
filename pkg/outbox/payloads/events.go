package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/swiftship/swiftship-backend/pkg/enums"
)

// OrderCreatedEvent signals a freshly booked shipment.
type OrderCreatedEvent struct {
	OrderID      uuid.UUID `json:"order_id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	TrackingCode string    `json:"tracking_code"`
	MerchantID   uuid.UUID `json:"merchant_id"`
	CODAmount    string    `json:"cod_amount"`
	Price        string    `json:"price"`
}

// OrderAssignedEvent is emitted when a courier is attached to an order.
type OrderAssignedEvent struct {
	OrderID      uuid.UUID `json:"order_id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	TrackingCode string    `json:"tracking_code"`
	CourierID    uuid.UUID `json:"courier_id"`
	AssignedByID uuid.UUID `json:"assigned_by_id"`
}

// OrderStateChangedEvent carries every committed status transition.
type OrderStateChangedEvent struct {
	OrderID       uuid.UUID         `json:"order_id"`
	TenantID      uuid.UUID         `json:"tenant_id"`
	MerchantID    uuid.UUID         `json:"merchant_id"`
	TrackingCode  string            `json:"tracking_code"`
	FromStatus    enums.OrderStatus `json:"from_status"`
	ToStatus      enums.OrderStatus `json:"to_status"`
	ChangedByID   uuid.UUID         `json:"changed_by_id"`
	LedgerApplied bool              `json:"ledger_applied"`
	ChangedAt     time.Time         `json:"changed_at"`
}

// NotificationCreatedEvent fans a stored notification out to delivery channels.
type NotificationCreatedEvent struct {
	NotificationID uuid.UUID              `json:"notification_id"`
	TenantID       uuid.UUID              `json:"tenant_id"`
	UserID         uuid.UUID              `json:"user_id"`
	Type           enums.NotificationType `json:"type"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
}
