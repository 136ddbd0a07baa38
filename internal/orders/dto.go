package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/swiftship/swiftship-backend/pkg/auth"
	"github.com/swiftship/swiftship-backend/pkg/db/models"
	"github.com/swiftship/swiftship-backend/pkg/enums"
	"github.com/swiftship/swiftship-backend/pkg/money"
)

// CreateOrderInput captures a merchant's booking request.
type CreateOrderInput struct {
	Actor          auth.Identity
	MerchantID     *uuid.UUID // admin-supplied; merchants book for themselves
	RecipientName  string
	RecipientPhone string
	Address        string
	City           string
	CODAmount      money.Amount
	Price          money.Amount
	Notes          *string
}

// AssignCourierInput attaches a courier to an order.
type AssignCourierInput struct {
	Actor     auth.Identity
	OrderID   uuid.UUID
	CourierID uuid.UUID
}

// UpdateStatusInput advances an order along the lifecycle.
type UpdateStatusInput struct {
	Actor     auth.Identity
	OrderID   uuid.UUID
	NewStatus enums.OrderStatus
	Note      *string
}

// ListFilters describe the inputs supported by the order list.
type ListFilters struct {
	Status     *enums.OrderStatus
	MerchantID *uuid.UUID
	CourierID  *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	// TrackingCode narrows the list to an exact tracking code match.
	TrackingCode string
}

// OrderSummary is the list-level projection of an order.
type OrderSummary struct {
	ID           uuid.UUID         `json:"id"`
	TrackingCode string            `json:"tracking_code"`
	Status       enums.OrderStatus `json:"status"`
	MerchantID   uuid.UUID         `json:"merchant_id"`
	CourierID    *uuid.UUID        `json:"courier_id,omitempty"`
	CODAmount    money.Amount      `json:"cod_amount"`
	Price        money.Amount      `json:"price"`
	CreatedAt    time.Time         `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// OrderDetail joins an order with its transition history.
type OrderDetail struct {
	Order   models.Order          `json:"order"`
	History []models.OrderHistory `json:"history"`
}
