package pricing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/pricing-engine/internal/platform/logger"
)

func TestBuildAdvisoryPromptQuotesValidity(t *testing.T) {
	cases := []struct {
		validity time.Duration
		want     string
	}{
		{30 * time.Minute, "valid for 30 minutes"},
		{10 * time.Minute, "valid for 10 minutes"},
		{time.Hour, "valid for 1 hour"},
		{2 * time.Hour, "valid for 2 hours"},
		{90 * time.Minute, "valid for 90 minutes"},
		{0, "valid for 30 minutes"},
	}
	req := newAdvisoryRequest(baseInput(MarketIntel{MarketPrice: 110000}), 3)
	for _, tc := range cases {
		system, _, err := BuildAdvisoryPrompt(req, tc.validity)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.validity, err)
		}
		if !strings.Contains(system, tc.want) {
			t.Fatalf("%s: want %q in system prompt", tc.validity, tc.want)
		}
		if strings.Contains(system, "%!") {
			t.Fatalf("%s: malformed system prompt: %s", tc.validity, system)
		}
	}
}

func TestSelectorQuotesConfiguredValidity(t *testing.T) {
	var seenSystem string
	adv := advisorFunc(func(ctx context.Context, system, user string) (string, error) {
		seenSystem = system
		return `{"strategy":"price_drop","recommended_price":115000,"reasoning":"market moved","message_angle":"deal"}`, nil
	})
	cfg := DefaultConfig()
	cfg.DiscountValidity = 15 * time.Minute
	NewSelector(adv, cfg, logger.NewNop()).Select(context.Background(), baseInput(MarketIntel{MarketPrice: 110000}))

	if !strings.Contains(seenSystem, "valid for 15 minutes") || strings.Contains(seenSystem, "30 minutes") {
		t.Fatalf("system prompt does not quote the configured validity: %s", seenSystem)
	}
}
