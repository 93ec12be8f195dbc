package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"time"

	types "github.com/yungbote/pricing-engine/internal/domain"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
)

// Advisor is an external chat-completion service. Its output is untrusted.
type Advisor interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type SelectionInput struct {
	ProductName  string
	CurrentPrice float64
	FloorPrice   float64
	Intel        MarketIntel
	Claim        ClaimCheck
	CustomerType types.CustomerType
}

// Selection is the chosen recommendation plus, when the fallback ran, the reason.
type Selection struct {
	Recommendation
	FallbackReason string        `json:"fallback_reason,omitempty"`
	AdvisoryTook   time.Duration `json:"-"`
}

const (
	ReasonAdvisoryDisabled = "advisory_disabled"
	ReasonTimeout          = "timeout"
	ReasonUpstreamError    = "upstream_error"
	ReasonParseFailure     = "parse_failure"
)

type Selector struct {
	advisor Advisor
	cfg     Config
	log     *logger.Logger
}

// NewSelector accepts a nil advisor, in which case every selection uses the fallback.
func NewSelector(advisor Advisor, cfg Config, baseLog *logger.Logger) *Selector {
	return &Selector{
		advisor: advisor,
		cfg:     cfg.Normalize(),
		log:     baseLog.With("component", "StrategySelector"),
	}
}

func (s *Selector) Select(ctx context.Context, in SelectionInput) Selection {
	if s.advisor == nil {
		return Selection{Recommendation: Fallback(in, s.cfg), FallbackReason: ReasonAdvisoryDisabled}
	}

	system, user, err := BuildAdvisoryPrompt(newAdvisoryRequest(in, s.cfg.ContextListings), s.cfg.DiscountValidity)
	if err != nil {
		return s.fallback(in, ReasonUpstreamError, err, 0)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.AdvisoryTimeout)
	defer cancel()

	start := time.Now()
	raw, err := s.advisor.Complete(callCtx, system, user)
	took := time.Since(start)
	if err != nil {
		if isTimeout(err) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return s.fallback(in, ReasonTimeout, err, took)
		}
		return s.fallback(in, ReasonUpstreamError, err, took)
	}

	rec, pf := DecodeRecommendation(raw)
	if pf != nil {
		return s.fallback(in, ReasonParseFailure, pf, took)
	}
	return Selection{Recommendation: rec, AdvisoryTook: took}
}

func (s *Selector) fallback(in SelectionInput, reason string, err error, took time.Duration) Selection {
	s.log.Warn("Advisory unavailable, using fallback rules",
		"product", in.ProductName,
		"reason", reason,
		"error", err,
	)
	return Selection{Recommendation: Fallback(in, s.cfg), FallbackReason: reason, AdvisoryTook: took}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Fallback is the deterministic rule table used whenever the advisory path fails.
// Surge always wins; a match offer is never derived from noise evidence.
func Fallback(in SelectionInput, cfg Config) Recommendation {
	cfg = cfg.Normalize()
	current := in.CurrentPrice
	market := in.Intel.MarketPrice

	rec := Recommendation{Source: SourceFallback}
	switch {
	case in.Intel.SurgeMode:
		rec.Strategy = StrategyValueReinforcement
		rec.RecommendedPrice = current
		rec.Reasoning = "Major retailers are out of stock; scarcity, price firm."
		rec.MessageAngle = "scarcity"

	case in.Claim.Verdict == VerdictUnverifiable:
		rec.Strategy = StrategyEducateAndCounter
		rec.RecommendedPrice = current
		rec.Reasoning = fmt.Sprintf("Claim not backed by trusted retailers: %s.", in.Claim.Risk)
		rec.MessageAngle = "authenticity_and_warranty"

	case in.Claim.Verdict == VerdictValid && in.Claim.ClaimedPrice < current:
		rec.Strategy = StrategyMatchOffer
		rec.RecommendedPrice = in.Claim.ClaimedPrice
		rec.Reasoning = fmt.Sprintf("Claim of %s matches %s; matching it.", FormatNaira(in.Claim.ClaimedPrice), in.Claim.MatchedSource)
		rec.MessageAngle = "price_match_with_warranty"

	case market > 0 && market < current:
		rec.Strategy = StrategyMatchOffer
		rec.RecommendedPrice = math.Max(dec(market).Sub(dec(cfg.MatchDecrement)).InexactFloat64(), in.FloorPrice)
		rec.Reasoning = fmt.Sprintf("Market price %s is below ours; undercutting by %s.", FormatNaira(market), FormatNaira(cfg.MatchDecrement))
		rec.MessageAngle = "competitive_price"

	default:
		rec.Strategy = StrategyValueReinforcement
		rec.RecommendedPrice = current
		rec.Reasoning = "Our price is at or below the market; holding price."
		rec.MessageAngle = "value"
	}
	rec.RecommendedPrice = roundMoney(rec.RecommendedPrice)
	return rec
}
