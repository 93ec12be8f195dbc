package market

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/pricing-engine/internal/domain"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"gorm.io/gorm"
)

// PriceObservationRepo is append-only. PurgeOlderThan is reserved for the retention worker.
type PriceObservationRepo interface {
	Append(ctx context.Context, tx *gorm.DB, observations []*types.PriceObservation) ([]*types.PriceObservation, error)
	ListForProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, since time.Time) ([]*types.PriceObservation, error)
	PurgeOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type priceObservationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPriceObservationRepo(db *gorm.DB, baseLog *logger.Logger) PriceObservationRepo {
	repoLog := baseLog.With("repo", "PriceObservationRepo")
	return &priceObservationRepo{db: db, log: repoLog}
}

func (r *priceObservationRepo) Append(ctx context.Context, tx *gorm.DB, observations []*types.PriceObservation) ([]*types.PriceObservation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(observations) == 0 {
		return []*types.PriceObservation{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&observations).Error; err != nil {
		return nil, err
	}
	return observations, nil
}

// ListForProduct returns observations newest first. A zero since returns the full history.
func (r *priceObservationRepo) ListForProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, since time.Time) ([]*types.PriceObservation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Where("product_id = ?", productID)
	if !since.IsZero() {
		q = q.Where("observed_at >= ?", since.UTC())
	}

	var results []*types.PriceObservation
	if err := q.Order("observed_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *priceObservationRepo) PurgeOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Where("observed_at < ?", cutoff.UTC()).
		Delete(&types.PriceObservation{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
