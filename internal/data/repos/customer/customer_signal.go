package customer

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/pricing-engine/internal/domain"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"gorm.io/gorm"
)

type CustomerSignalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, signals []*types.CustomerSignal) ([]*types.CustomerSignal, error)
	ListSince(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, since time.Time) ([]*types.CustomerSignal, error)
}

type customerSignalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomerSignalRepo(db *gorm.DB, baseLog *logger.Logger) CustomerSignalRepo {
	repoLog := baseLog.With("repo", "CustomerSignalRepo")
	return &customerSignalRepo{db: db, log: repoLog}
}

func (sr *customerSignalRepo) Create(ctx context.Context, tx *gorm.DB, signals []*types.CustomerSignal) ([]*types.CustomerSignal, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(signals) == 0 {
		return []*types.CustomerSignal{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&signals).Error; err != nil {
		return nil, err
	}
	return signals, nil
}

func (sr *customerSignalRepo) ListSince(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, since time.Time) ([]*types.CustomerSignal, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.CustomerSignal
	if err := transaction.WithContext(ctx).
		Where("customer_id = ? AND detected_at >= ?", customerID, since.UTC()).
		Order("detected_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
