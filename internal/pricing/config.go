package pricing

import "time"

// Config holds the engine's tunable constants. Zero values are replaced by
// DefaultConfig values in Normalize.
type Config struct {
	SurgeWindow     time.Duration `yaml:"surge_window"`
	SurgeMarkup     float64       `yaml:"surge_markup"`
	MatchDecrement  float64       `yaml:"match_decrement"`
	LadderIncrement float64       `yaml:"ladder_increment"`
	CounterBand     float64       `yaml:"counter_band"`
	ClaimTolerance  float64       `yaml:"claim_tolerance"`
	NewSellerWindow time.Duration `yaml:"new_seller_window"`
	AdvisoryTimeout time.Duration `yaml:"advisory_timeout"`
	ContextListings int           `yaml:"context_listings"`
	OfferMinRatio   float64       `yaml:"offer_min_ratio"`
	OfferMaxRatio   float64       `yaml:"offer_max_ratio"`

	// DiscountValidity is how long a discounted price stays redeemable. The
	// decision service sets it from the flash-code TTL.
	DiscountValidity time.Duration `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		SurgeWindow:     6 * time.Hour,
		SurgeMarkup:     1.10,
		MatchDecrement:  500,
		LadderIncrement: 500,
		CounterBand:     0.9,
		ClaimTolerance:  0.01,
		NewSellerWindow: 90 * 24 * time.Hour,
		AdvisoryTimeout: 15 * time.Second,
		ContextListings: 3,
		OfferMinRatio:   0.3,
		OfferMaxRatio:   2.0,

		DiscountValidity: 30 * time.Minute,
	}
}

func (c Config) Normalize() Config {
	d := DefaultConfig()
	if c.SurgeWindow <= 0 {
		c.SurgeWindow = d.SurgeWindow
	}
	if c.SurgeMarkup <= 0 {
		c.SurgeMarkup = d.SurgeMarkup
	}
	if c.MatchDecrement < 0 {
		c.MatchDecrement = d.MatchDecrement
	}
	if c.LadderIncrement < 0 {
		c.LadderIncrement = d.LadderIncrement
	}
	if c.CounterBand <= 0 || c.CounterBand >= 1 {
		c.CounterBand = d.CounterBand
	}
	if c.ClaimTolerance < 0 {
		c.ClaimTolerance = d.ClaimTolerance
	}
	if c.NewSellerWindow <= 0 {
		c.NewSellerWindow = d.NewSellerWindow
	}
	if c.AdvisoryTimeout <= 0 {
		c.AdvisoryTimeout = d.AdvisoryTimeout
	}
	if c.ContextListings <= 0 {
		c.ContextListings = d.ContextListings
	}
	if c.OfferMinRatio <= 0 {
		c.OfferMinRatio = d.OfferMinRatio
	}
	if c.OfferMaxRatio <= c.OfferMinRatio {
		c.OfferMaxRatio = d.OfferMaxRatio
	}
	if c.DiscountValidity <= 0 {
		c.DiscountValidity = d.DiscountValidity
	}
	return c
}
