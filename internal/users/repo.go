package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftship/swiftship-backend/pkg/db/models"
)

// Repository exposes user and profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// CreateMerchantProfile persists the merchant profile tied to a user.
func (r *Repository) CreateMerchantProfile(ctx context.Context, profile *models.MerchantProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// CreateCourierProfile persists the courier profile tied to a user.
func (r *Repository) CreateCourierProfile(ctx context.Context, profile *models.CourierProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// FindMerchantByUserID loads the merchant profile owned by the given user.
func (r *Repository) FindMerchantByUserID(ctx context.Context, userID uuid.UUID) (*models.MerchantProfile, error) {
	var merchant models.MerchantProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&merchant).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

// FindMerchantByID loads a merchant profile by primary key.
func (r *Repository) FindMerchantByID(ctx context.Context, id uuid.UUID) (*models.MerchantProfile, error) {
	var merchant models.MerchantProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&merchant).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

// FindCourierByUserID loads the courier profile owned by the given user.
func (r *Repository) FindCourierByUserID(ctx context.Context, userID uuid.UUID) (*models.CourierProfile, error) {
	var courier models.CourierProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&courier).Error; err != nil {
		return nil, err
	}
	return &courier, nil
}

// FindCourierByID loads a courier profile by primary key.
func (r *Repository) FindCourierByID(ctx context.Context, id uuid.UUID) (*models.CourierProfile, error) {
	var courier models.CourierProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&courier).Error; err != nil {
		return nil, err
	}
	return &courier, nil
}
