package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/swiftship/swiftship-backend/pkg/enums"
	"github.com/swiftship/swiftship-backend/pkg/money"
)

// Order is the shipment aggregate. Status only ever changes through the
// lifecycle service, never by direct column update.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID        uuid.UUID         `gorm:"column:tenant_id;type:uuid;not null;index"`
	TrackingCode    string            `gorm:"column:tracking_code;type:text;not null;uniqueIndex"`
	MerchantID      uuid.UUID         `gorm:"column:merchant_id;type:uuid;not null;index"`
	CourierID       *uuid.UUID        `gorm:"column:courier_id;type:uuid;index"`
	Status          enums.OrderStatus `gorm:"column:status;type:order_status_enum;not null"`
	RecipientName   string            `gorm:"column:recipient_name;type:text;not null"`
	RecipientPhone  string            `gorm:"column:recipient_phone;type:text;not null"`
	Address         string            `gorm:"column:address;type:text;not null"`
	City            string            `gorm:"column:city;type:text;not null"`
	CODAmount       money.Amount      `gorm:"column:cod_amount;type:numeric(14,2);not null"`
	Price           money.Amount      `gorm:"column:price;type:numeric(14,2);not null"`
	Notes           *string           `gorm:"column:notes;type:text"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
