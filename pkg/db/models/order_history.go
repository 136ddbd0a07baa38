package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/swiftship/swiftship-backend/pkg/enums"
)

// OrderHistory is the append-only transition log. One row per status change,
// written in the same transaction as the order update.
type OrderHistory struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index"`
	TenantID    uuid.UUID          `gorm:"column:tenant_id;type:uuid;not null"`
	StatusFrom  *enums.OrderStatus `gorm:"column:status_from;type:order_status_enum"`
	StatusTo    enums.OrderStatus  `gorm:"column:status_to;type:order_status_enum;not null"`
	ChangedByID uuid.UUID          `gorm:"column:changed_by_id;type:uuid;not null"`
	Note        *string            `gorm:"column:note;type:text"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
}
