package pricing

import (
	"math"

	types "github.com/yungbote/pricing-engine/internal/domain"
)

// Estimator scores the likelihood that a customer converts at the proposed price.
// Implementations must return a value in [0,1].
type Estimator interface {
	Estimate(current, proposed, marketAvg, customerTypeScore float64) float64
}

// HeuristicEstimator is the default Estimator. It is monotone: a deeper discount,
// a price at or under the market average, or a higher customer score never lowers it.
type HeuristicEstimator struct {
	Base          float64
	DiscountGain  float64
	MarketBonus   float64
	CustomerBonus float64
}

func DefaultEstimator() HeuristicEstimator {
	return HeuristicEstimator{
		Base:          0.5,
		DiscountGain:  0.25,
		MarketBonus:   0.15,
		CustomerBonus: 0.1,
	}
}

func (h HeuristicEstimator) Estimate(current, proposed, marketAvg, customerTypeScore float64) float64 {
	p := h.Base
	if current > 0 && proposed < current {
		discount := (current - proposed) / current
		p += h.DiscountGain * clamp01(discount)
	}
	if marketAvg > 0 && proposed <= marketAvg {
		p += h.MarketBonus
	}
	p += h.CustomerBonus * clamp01(customerTypeScore)
	return roundProb(clamp01(p))
}

// CustomerTypeScore is 0 for price-sensitive customers and 1 otherwise.
func CustomerTypeScore(ct types.CustomerType) float64 {
	if ct == types.CustomerPriceSensitive {
		return 0
	}
	return 1
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func roundProb(v float64) float64 {
	return dec(v).Round(4).InexactFloat64()
}
