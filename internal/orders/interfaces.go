package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftship/swiftship-backend/pkg/auth"
	"github.com/swiftship/swiftship-backend/pkg/db/models"
	"github.com/swiftship/swiftship-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their history log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// FindByIDForUpdate locks the order row until the surrounding transaction
	// ends. Every status transition goes through this.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByTrackingCode(ctx context.Context, code string) (*models.Order, error)
	Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	AppendHistory(ctx context.Context, entry *models.OrderHistory) error
	ListHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderHistory, error)
	List(ctx context.Context, scope auth.TenantScope, params pagination.Params, filters ListFilters) (*OrderList, error)
}

// DeliveryLedger applies the balance/wallet mutation for a delivered order
// inside the caller's transaction.
type DeliveryLedger interface {
	ApplyDeliveryLedger(ctx context.Context, tx *gorm.DB, order *models.Order) error
}

// CourierDirectory resolves courier profiles during assignment.
type CourierDirectory interface {
	FindCourierByID(ctx context.Context, id uuid.UUID) (*models.CourierProfile, error)
}

// MerchantDirectory resolves the merchant profile of the acting user.
type MerchantDirectory interface {
	FindMerchantByUserID(ctx context.Context, userID uuid.UUID) (*models.MerchantProfile, error)
	FindMerchantByID(ctx context.Context, id uuid.UUID) (*models.MerchantProfile, error)
}
