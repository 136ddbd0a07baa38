package finance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swiftship/swiftship-backend/pkg/db/models"
	"github.com/swiftship/swiftship-backend/pkg/enums"
	"github.com/swiftship/swiftship-backend/pkg/money"
)

// Repository is the persistence boundary for merchant balances and courier
// wallets. Balance deltas are applied in SQL so concurrent transitions never
// read-modify-write stale values.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindMerchantByID(ctx context.Context, id uuid.UUID) (*models.MerchantProfile, error)
	FindMerchantByUserID(ctx context.Context, userID uuid.UUID) (*models.MerchantProfile, error)
	FindMerchantByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.MerchantProfile, error)
	FindCourierByID(ctx context.Context, id uuid.UUID) (*models.CourierProfile, error)
	FindCourierByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.CourierProfile, error)
	AddToMerchantBalance(ctx context.Context, merchantID uuid.UUID, delta money.Amount) (int64, error)
	AddToCourierWallet(ctx context.Context, courierID uuid.UUID, delta money.Amount) (int64, error)
	SumDeliveredForMerchant(ctx context.Context, merchantID uuid.UUID) (money.Amount, error)
	SetMerchantBalance(ctx context.Context, merchantID uuid.UUID, balance money.Amount) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a finance repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindMerchantByID(ctx context.Context, id uuid.UUID) (*models.MerchantProfile, error) {
	var merchant models.MerchantProfile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&merchant).Error
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *repository) FindMerchantByUserID(ctx context.Context, userID uuid.UUID) (*models.MerchantProfile, error) {
	var merchant models.MerchantProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&merchant).Error
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *repository) FindMerchantByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.MerchantProfile, error) {
	var merchant models.MerchantProfile
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&merchant).Error
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *repository) FindCourierByID(ctx context.Context, id uuid.UUID) (*models.CourierProfile, error) {
	var courier models.CourierProfile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&courier).Error
	if err != nil {
		return nil, err
	}
	return &courier, nil
}

func (r *repository) FindCourierByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.CourierProfile, error) {
	var courier models.CourierProfile
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&courier).Error
	if err != nil {
		return nil, err
	}
	return &courier, nil
}

func (r *repository) AddToMerchantBalance(ctx context.Context, merchantID uuid.UUID, delta money.Amount) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.MerchantProfile{}).
		Where("id = ?", merchantID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) AddToCourierWallet(ctx context.Context, courierID uuid.UUID, delta money.Amount) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CourierProfile{}).
		Where("id = ?", courierID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) SumDeliveredForMerchant(ctx context.Context, merchantID uuid.UUID) (money.Amount, error) {
	var total money.Amount
	row := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(cod_amount - price), 0)").
		Where("merchant_id = ? AND status = ?", merchantID, enums.OrderStatusDelivered).
		Row()
	if err := row.Scan(&total); err != nil {
		return money.Zero(), err
	}
	return total, nil
}

func (r *repository) SetMerchantBalance(ctx context.Context, merchantID uuid.UUID, balance money.Amount) error {
	return r.db.WithContext(ctx).
		Model(&models.MerchantProfile{}).
		Where("id = ?", merchantID).
		Update("balance", balance).Error
}
