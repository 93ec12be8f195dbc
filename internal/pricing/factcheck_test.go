package pricing

import (
	"strings"
	"testing"
	"time"

	types "github.com/yungbote/pricing-engine/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestCheckClaimNoClaim(t *testing.T) {
	got := CheckClaim(nil, MarketIntel{}, testNow, DefaultConfig())
	if got.Verdict != VerdictNoClaim {
		t.Fatalf("verdict: want=%s got=%s", VerdictNoClaim, got.Verdict)
	}
	got = CheckClaim(ptr(-5), MarketIntel{}, testNow, DefaultConfig())
	if got.Verdict != VerdictNoClaim {
		t.Fatalf("negative claim: want=%s got=%s", VerdictNoClaim, got.Verdict)
	}
}

func TestCheckClaimTrustedMatchWithinTolerance(t *testing.T) {
	intel := Aggregate([]*types.PriceObservation{
		obs(types.TierMarket, 100500, false, time.Hour),
		obs(types.TierNoise, 100000, false, time.Hour),
	}, testNow, DefaultConfig())

	got := CheckClaim(ptr(100000), intel, testNow, DefaultConfig())
	if got.Verdict != VerdictValid {
		t.Fatalf("verdict: want=%s got=%s", VerdictValid, got.Verdict)
	}
	if got.SuggestedStrategy != StrategyMatchOffer || got.SuggestedPrice != 100000 {
		t.Fatalf("suggestion: unexpected %+v", got)
	}
	if got.MatchedTier != types.TierMarket {
		t.Fatalf("trusted tier must win over noise, got %s", got.MatchedTier)
	}
}

func TestCheckClaimNoiseOnlyIsUnverifiable(t *testing.T) {
	joined := testNow.Add(-30 * 24 * time.Hour)
	noise := obs(types.TierNoise, 90000, false, time.Hour)
	noise.Source = "Jiji"
	noise.SellerJoinedAt = &joined

	intel := Aggregate([]*types.PriceObservation{
		obs(types.TierTruth, 110000, false, time.Hour),
		noise,
	}, testNow, DefaultConfig())

	got := CheckClaim(ptr(90000), intel, testNow, DefaultConfig())
	if got.Verdict != VerdictUnverifiable {
		t.Fatalf("verdict: want=%s got=%s", VerdictUnverifiable, got.Verdict)
	}
	if got.SuggestedStrategy != StrategyEducateAndCounter {
		t.Fatalf("strategy: want=%s got=%s", StrategyEducateAndCounter, got.SuggestedStrategy)
	}
	if !strings.Contains(got.Risk, "unverified seller") || !strings.Contains(got.Risk, joined.Format("2006-01-02")) {
		t.Fatalf("risk narrative: %q", got.Risk)
	}
}

func TestCheckClaimOldNoiseSellerOmitsJoinDate(t *testing.T) {
	joined := testNow.Add(-400 * 24 * time.Hour)
	noise := obs(types.TierNoise, 90000, false, time.Hour)
	noise.SellerJoinedAt = &joined
	intel := Aggregate([]*types.PriceObservation{noise}, testNow, DefaultConfig())

	got := CheckClaim(ptr(90000), intel, testNow, DefaultConfig())
	if strings.Contains(got.Risk, "joined") {
		t.Fatalf("established seller should not be flagged as new: %q", got.Risk)
	}
}

func TestCheckClaimUnmatchedIsUnverifiable(t *testing.T) {
	intel := Aggregate([]*types.PriceObservation{
		obs(types.TierTruth, 110000, false, time.Hour),
	}, testNow, DefaultConfig())
	got := CheckClaim(ptr(70000), intel, testNow, DefaultConfig())
	if got.Verdict != VerdictUnverifiable || got.MatchedSource != "" {
		t.Fatalf("unmatched claim: unexpected %+v", got)
	}
}
