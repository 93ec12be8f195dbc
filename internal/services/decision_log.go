package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/yungbote/pricing-engine/internal/data/repos"
	types "github.com/yungbote/pricing-engine/internal/domain"
	"github.com/yungbote/pricing-engine/internal/observability"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"github.com/yungbote/pricing-engine/internal/pricing"
)

// decisionLogger appends one audit record per emitted price. Writes are not
// retried; a failure is returned wrapped in ErrDecisionLog.
type decisionLogger struct {
	repo repos.PricingDecisionRepo
	log  *logger.Logger
}

func (l decisionLogger) record(ctx context.Context, d *types.PricingDecision, intel *pricing.MarketIntel) (*types.PricingDecision, error) {
	if intel != nil {
		raw, err := json.Marshal(intel)
		if err != nil {
			return nil, fmt.Errorf("%w: encode market intel: %v", ErrDecisionLog, err)
		}
		d.MarketIntel = datatypes.JSON(raw)
	}
	saved, err := l.repo.Create(ctx, nil, d)
	if err != nil {
		observability.Current().IncDecisionLogFailure()
		l.log.Error("Decision log write failed",
			"product_id", d.ProductID,
			"strategy", d.Strategy,
			"source", d.Source,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrDecisionLog, err)
	}
	return saved, nil
}
