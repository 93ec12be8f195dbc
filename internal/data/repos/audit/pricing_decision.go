package audit

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/pricing-engine/internal/domain"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"gorm.io/gorm"
)

// PricingDecisionRepo has no update or delete methods.
type PricingDecisionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, decision *types.PricingDecision) (*types.PricingDecision, error)
	ListForProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, limit int) ([]*types.PricingDecision, error)
	GetByFlashCode(ctx context.Context, tx *gorm.DB, code string) (*types.PricingDecision, error)
}

type pricingDecisionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPricingDecisionRepo(db *gorm.DB, baseLog *logger.Logger) PricingDecisionRepo {
	repoLog := baseLog.With("repo", "PricingDecisionRepo")
	return &pricingDecisionRepo{db: db, log: repoLog}
}

func (r *pricingDecisionRepo) Create(ctx context.Context, tx *gorm.DB, decision *types.PricingDecision) (*types.PricingDecision, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(decision).Error; err != nil {
		return nil, err
	}
	return decision, nil
}

func (r *pricingDecisionRepo) ListForProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, limit int) ([]*types.PricingDecision, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var results []*types.PricingDecision
	if err := transaction.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByFlashCode returns nil, nil when no decision carries the code.
func (r *pricingDecisionRepo) GetByFlashCode(ctx context.Context, tx *gorm.DB, code string) (*types.PricingDecision, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PricingDecision
	if err := transaction.WithContext(ctx).
		Where("flash_code = ?", code).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}
