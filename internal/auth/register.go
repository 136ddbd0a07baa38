package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/swiftship/swiftship-backend/internal/users"
	"github.com/swiftship/swiftship-backend/pkg/config"
	"github.com/swiftship/swiftship-backend/pkg/db/models"
	"github.com/swiftship/swiftship-backend/pkg/enums"
	pkgerrors "github.com/swiftship/swiftship-backend/pkg/errors"
	"github.com/swiftship/swiftship-backend/pkg/security"
)

// RegisterService handles the onboarding transaction: user row plus the
// role-specific profile, committed as one unit.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	CreateMerchantProfile(ctx context.Context, profile *models.MerchantProfile) error
	CreateCourierProfile(ctx context.Context, profile *models.CourierProfile) error
}

type registerTenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner        txRunner
	UserRepoFactory func(tx *gorm.DB) registerUserRepository
	Tenants         registerTenantRepository
	PasswordConfig  config.PasswordConfig
}

// UsersRepoFactory adapts the users repository into the tx-scoped factory the
// registration flow expects.
func UsersRepoFactory(repo *users.Repository) func(tx *gorm.DB) registerUserRepository {
	return func(tx *gorm.DB) registerUserRepository {
		return repo.WithTx(tx)
	}
}

type registerService struct {
	tx          txRunner
	userRepo    func(tx *gorm.DB) registerUserRepository
	tenants     registerTenantRepository
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.UserRepoFactory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repo factory required")
	}
	if params.Tenants == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tenants repository required")
	}
	return &registerService{
		tx:          params.TxRunner,
		userRepo:    params.UserRepoFactory,
		tenants:     params.Tenants,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}

	switch req.Role {
	case enums.UserRoleMerchant:
		if req.BusinessName == nil || strings.TrimSpace(*req.BusinessName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name is required for merchants")
		}
	case enums.UserRoleCourier, enums.UserRoleAdmin:
	default:
		// SUPER_ADMIN accounts are provisioned out of band, never through the API.
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role cannot be registered").
			WithDetails(map[string]string{"role": string(req.Role)})
	}

	tenant, err := s.tenants.FindByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup tenant")
	}
	if !tenant.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant is not active")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		tenantID := tenant.ID
		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FullName:     req.FullName,
			Phone:        req.Phone,
			Role:         req.Role,
			TenantID:     &tenantID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		switch req.Role {
		case enums.UserRoleMerchant:
			profile := &models.MerchantProfile{
				UserID:       user.ID,
				TenantID:     tenant.ID,
				BusinessName: strings.TrimSpace(*req.BusinessName),
			}
			if err := userRepo.CreateMerchantProfile(ctx, profile); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create merchant profile")
			}
		case enums.UserRoleCourier:
			zones := req.Zones
			if zones == nil {
				zones = []string{}
			}
			profile := &models.CourierProfile{
				UserID:      user.ID,
				TenantID:    tenant.ID,
				VehicleType: req.VehicleType,
				Zones:       pq.StringArray(zones),
			}
			if err := userRepo.CreateCourierProfile(ctx, profile); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create courier profile")
			}
		}

		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users.FromModel(created), nil
}
