package pricing

import (
	"fmt"
	"math"
	"time"

	types "github.com/yungbote/pricing-engine/internal/domain"
)

type Verdict string

const (
	VerdictNoClaim      Verdict = "no_claim"
	VerdictValid        Verdict = "valid_claim"
	VerdictUnverifiable Verdict = "unverifiable_claim"
)

type ClaimCheck struct {
	Verdict           Verdict    `json:"verdict"`
	ClaimedPrice      float64    `json:"claimed_price,omitempty"`
	SuggestedStrategy Strategy   `json:"suggested_strategy,omitempty"`
	SuggestedPrice    float64    `json:"suggested_price,omitempty"`
	MatchedSource     string     `json:"matched_source,omitempty"`
	MatchedTier       types.Tier `json:"matched_tier,omitempty"`
	Risk              string     `json:"risk,omitempty"`
}

// CheckClaim compares a customer's claimed competitor price against the tiers.
// Trusted listings are consulted before noise so a price seen in both is valid.
func CheckClaim(claim *float64, intel MarketIntel, now time.Time, cfg Config) ClaimCheck {
	cfg = cfg.Normalize()
	if claim == nil || !validPrice(*claim) {
		return ClaimCheck{Verdict: VerdictNoClaim}
	}
	x := *claim
	tol := x * cfg.ClaimTolerance

	for _, l := range intel.Trusted {
		if math.Abs(l.Price-x) <= tol {
			return ClaimCheck{
				Verdict:           VerdictValid,
				ClaimedPrice:      x,
				SuggestedStrategy: StrategyMatchOffer,
				SuggestedPrice:    x,
				MatchedSource:     l.Source,
				MatchedTier:       l.Tier,
			}
		}
	}

	out := ClaimCheck{
		Verdict:           VerdictUnverifiable,
		ClaimedPrice:      x,
		SuggestedStrategy: StrategyEducateAndCounter,
	}
	for _, l := range intel.Noise {
		if math.Abs(l.Price-x) > tol {
			continue
		}
		out.MatchedSource = l.Source
		out.MatchedTier = l.Tier
		out.Risk = fmt.Sprintf("%s listing is from an unverified seller (%s)", FormatNaira(x), l.Source)
		if l.SellerJoinedAt != nil && now.Sub(*l.SellerJoinedAt) < cfg.NewSellerWindow {
			out.Risk += fmt.Sprintf(" who joined on %s", l.SellerJoinedAt.UTC().Format("2006-01-02"))
		}
		return out
	}
	out.Risk = fmt.Sprintf("no trusted retailer lists it at %s; likely an unverified seller", FormatNaira(x))
	return out
}
