package finance

import (
	"github.com/google/uuid"

	"github.com/swiftship/swiftship-backend/pkg/auth"
	"github.com/swiftship/swiftship-backend/pkg/money"
)

// MerchantBalanceView is the read projection of a merchant ledger balance.
type MerchantBalanceView struct {
	MerchantID uuid.UUID    `json:"merchant_id"`
	Balance    money.Amount `json:"balance"`
}

// CourierWalletView is the read projection of a courier COD wallet.
type CourierWalletView struct {
	CourierID uuid.UUID    `json:"courier_id"`
	Wallet    money.Amount `json:"wallet"`
}

// DeductWalletInput records a cash settlement collected from a courier.
type DeductWalletInput struct {
	Actor     auth.Identity
	CourierID uuid.UUID
	Amount    money.Amount
	Note      *string
}
