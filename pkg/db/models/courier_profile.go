package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/swiftship/swiftship-backend/pkg/money"
)

// CourierProfile carries the courier cash-on-delivery wallet.
type CourierProfile struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	TenantID      uuid.UUID      `gorm:"column:tenant_id;type:uuid;not null;index"`
	VehicleType   *string        `gorm:"column:vehicle_type;type:text"`
	Zones         pq.StringArray `gorm:"column:zones;type:text[];not null;default:ARRAY[]::text[]"`
	WalletBalance money.Amount   `gorm:"column:wallet_balance;type:numeric(14,2);not null;default:0"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
