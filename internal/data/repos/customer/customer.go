package customer

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/pricing-engine/internal/domain"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"gorm.io/gorm"
)

type CustomerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, customers []*types.Customer) ([]*types.Customer, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, customerIDs []uuid.UUID) ([]*types.Customer, error)
	GetByPhone(ctx context.Context, tx *gorm.DB, phone string) (*types.Customer, error)
	UpdateType(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, customerType types.CustomerType) error
	TouchLastInteraction(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, at time.Time) error
}

type customerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomerRepo(db *gorm.DB, baseLog *logger.Logger) CustomerRepo {
	repoLog := baseLog.With("repo", "CustomerRepo")
	return &customerRepo{db: db, log: repoLog}
}

func (cr *customerRepo) Create(ctx context.Context, tx *gorm.DB, customers []*types.Customer) ([]*types.Customer, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(customers) == 0 {
		return []*types.Customer{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (cr *customerRepo) GetByIDs(ctx context.Context, tx *gorm.DB, customerIDs []uuid.UUID) ([]*types.Customer, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Customer
	if len(customerIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", customerIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByPhone returns nil, nil when no customer has the phone number.
func (cr *customerRepo) GetByPhone(ctx context.Context, tx *gorm.DB, phone string) (*types.Customer, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Customer
	if err := transaction.WithContext(ctx).
		Where("phone = ?", phone).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (cr *customerRepo) UpdateType(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, customerType types.CustomerType) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Customer{}).
		Where("id = ?", customerID).
		Update("customer_type", customerType).Error
}

func (cr *customerRepo) TouchLastInteraction(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Customer{}).
		Where("id = ?", customerID).
		Update("last_interaction", at.UTC()).Error
}
