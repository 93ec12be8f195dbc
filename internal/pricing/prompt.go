package pricing

import (
	"encoding/json"
	"fmt"
	"time"

	types "github.com/yungbote/pricing-engine/internal/domain"
)

// AdvisoryRequest is everything the advisory service is allowed to see.
// It must never carry the floor price.
type AdvisoryRequest struct {
	ProductName   string             `json:"product_name"`
	CurrentPrice  float64            `json:"current_price"`
	MarketPrice   float64            `json:"market_price"`
	SurgeMode     bool               `json:"surge_mode"`
	Trusted       []promptListing    `json:"trusted_competitors"`
	Noise         []promptListing    `json:"noise_listings"`
	CustomerType  types.CustomerType `json:"customer_type"`
	CustomerClaim *float64           `json:"customer_claim,omitempty"`
	Verdict       Verdict            `json:"fact_check_verdict"`
	Risk          string             `json:"fact_check_risk,omitempty"`
}

type promptListing struct {
	Price          float64 `json:"price"`
	Source         string  `json:"source"`
	OutOfStock     bool    `json:"out_of_stock,omitempty"`
	SellerJoinedAt string  `json:"seller_joined,omitempty"`
}

func newAdvisoryRequest(in SelectionInput, n int) AdvisoryRequest {
	req := AdvisoryRequest{
		ProductName:  in.ProductName,
		CurrentPrice: in.CurrentPrice,
		MarketPrice:  in.Intel.MarketPrice,
		SurgeMode:    in.Intel.SurgeMode,
		Trusted:      []promptListing{},
		Noise:        []promptListing{},
		CustomerType: in.CustomerType,
		Verdict:      in.Claim.Verdict,
		Risk:         in.Claim.Risk,
	}
	if req.CustomerType == "" {
		req.CustomerType = types.CustomerUnknown
	}
	if in.Claim.Verdict != VerdictNoClaim && in.Claim.ClaimedPrice > 0 {
		claim := in.Claim.ClaimedPrice
		req.CustomerClaim = &claim
	}
	for _, l := range topListings(in.Intel.Trusted, n) {
		req.Trusted = append(req.Trusted, promptListing{Price: l.Price, Source: l.Source, OutOfStock: l.OutOfStock})
	}
	for _, l := range topListings(in.Intel.Noise, n) {
		pl := promptListing{Price: l.Price, Source: l.Source}
		if l.SellerJoinedAt != nil {
			pl.SellerJoinedAt = l.SellerJoinedAt.UTC().Format("2006-01-02")
		}
		req.Noise = append(req.Noise, pl)
	}
	return req
}

const advisorySystemPrompt = `You are a market analyst for a Nigerian electronics seller. Prices are in naira (₦).

Fact-check the customer's claim against the market context and pick one strategy:
- "match_offer": the claim matches a trusted competitor (truth or market tier). Offer the claimed price or slightly under, and stress warranty and originality.
- "educate_and_counter": the claim only matches noise listings or nothing. Explain the unverified-seller risk and hold a fair price for the original product.
- "value_reinforcement": surge mode (major retailers out of stock) or no reason to move. Refuse discounts; supply is scarce and the price is firm.
- "price_drop": the market has moved below our price and a modest drop is warranted.

When a discount is offered, mention that it is valid for %s.

Reply with a single JSON object and nothing else:
{"strategy": "...", "recommended_price": <number>, "reasoning": "<fact-check analysis>", "message_angle": "<customer-facing angle>"}`

// BuildAdvisoryPrompt returns the system and user messages for the advisory call.
// validity is the real lifetime of a discount code and is quoted to the customer.
func BuildAdvisoryPrompt(req AdvisoryRequest, validity time.Duration) (string, string, error) {
	b, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(advisorySystemPrompt, formatValidity(validity)), "MARKET CONTEXT:\n" + string(b), nil
}

func formatValidity(d time.Duration) string {
	if d <= 0 {
		d = DefaultConfig().DiscountValidity
	}
	if d >= time.Hour && d%time.Hour == 0 {
		if h := int(d / time.Hour); h > 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	}
	m := int((d + 30*time.Second) / time.Minute)
	if m <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
