package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/swiftship/swiftship-backend/pkg/money"
)

// MerchantProfile carries the merchant-facing ledger balance. Balance only
// moves inside the same transaction as the order transition that causes it.
type MerchantProfile struct {
	ID           uuid.UUID    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID    `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	TenantID     uuid.UUID    `gorm:"column:tenant_id;type:uuid;not null;index"`
	BusinessName string       `gorm:"column:business_name;type:text;not null"`
	Address      *string      `gorm:"column:address;type:text"`
	Balance      money.Amount `gorm:"column:balance;type:numeric(14,2);not null;default:0"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}
