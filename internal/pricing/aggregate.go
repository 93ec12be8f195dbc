package pricing

import (
	"sort"
	"time"

	types "github.com/yungbote/pricing-engine/internal/domain"
)

// Listing is one competitor price as seen by the aggregator.
type Listing struct {
	Price          float64    `json:"price"`
	Source         string     `json:"source"`
	Tier           types.Tier `json:"tier"`
	OutOfStock     bool       `json:"out_of_stock"`
	SellerVerified bool       `json:"seller_verified"`
	SellerJoinedAt *time.Time `json:"seller_joined_at,omitempty"`
	ObservedAt     time.Time  `json:"observed_at"`
}

// MarketIntel is the reduced view of one product's observations.
type MarketIntel struct {
	SurgeMode          bool      `json:"surge_mode"`
	MarketPrice        float64   `json:"market_price"`
	LowestTrustedPrice float64   `json:"lowest_trusted_price"`
	Trusted            []Listing `json:"trusted"`
	Noise              []Listing `json:"noise"`
	Observations       int       `json:"observations"`
	ComputedAt         time.Time `json:"computed_at"`
}

// Aggregate partitions observations by tier and derives the market price and surge flag.
// Observations with an unknown tier are ignored.
func Aggregate(observations []*types.PriceObservation, now time.Time, cfg Config) MarketIntel {
	cfg = cfg.Normalize()
	intel := MarketIntel{
		Trusted:    []Listing{},
		Noise:      []Listing{},
		ComputedAt: now.UTC(),
	}

	var truth, market []Listing
	recent := false
	cutoff := now.Add(-cfg.SurgeWindow)
	for _, o := range observations {
		if o == nil || !o.Tier.Valid() {
			continue
		}
		intel.Observations++
		if o.ObservedAt.After(cutoff) {
			recent = true
		}
		l := Listing{
			Price:          o.Price,
			Source:         o.Source,
			Tier:           o.Tier,
			OutOfStock:     o.OutOfStock,
			SellerVerified: o.SellerVerified,
			SellerJoinedAt: o.SellerJoinedAt,
			ObservedAt:     o.ObservedAt,
		}
		switch o.Tier {
		case types.TierTruth:
			truth = append(truth, l)
		case types.TierMarket:
			market = append(market, l)
		case types.TierNoise:
			intel.Noise = append(intel.Noise, l)
		}
	}

	intel.Trusted = append(intel.Trusted, truth...)
	intel.Trusted = append(intel.Trusted, market...)
	sortListings(intel.Trusted)
	sortListings(intel.Noise)

	if len(truth) == 0 {
		intel.SurgeMode = !recent
	} else {
		intel.SurgeMode = true
		for _, l := range truth {
			if !l.OutOfStock {
				intel.SurgeMode = false
				break
			}
		}
	}

	var inStock, allTruth, marketPrices []float64
	for _, l := range truth {
		allTruth = append(allTruth, l.Price)
		if !l.OutOfStock {
			inStock = append(inStock, l.Price)
		}
	}
	for _, l := range market {
		marketPrices = append(marketPrices, l.Price)
	}

	switch {
	case len(inStock) > 0:
		intel.MarketPrice = meanOf(inStock)
	case len(allTruth) > 0 && intel.SurgeMode:
		intel.MarketPrice = dec(meanOf(allTruth)).Mul(dec(cfg.SurgeMarkup)).Round(2).InexactFloat64()
	case len(marketPrices) > 0:
		intel.MarketPrice = meanOf(marketPrices)
	}

	for i, l := range intel.Trusted {
		if i == 0 || l.Price < intel.LowestTrustedPrice {
			intel.LowestTrustedPrice = l.Price
		}
	}
	return intel
}

// tier rank first, newest first within a tier
func sortListings(ls []Listing) {
	sort.SliceStable(ls, func(i, j int) bool {
		ri, rj := ls[i].Tier.Rank(), ls[j].Tier.Rank()
		if ri != rj {
			return ri < rj
		}
		return ls[i].ObservedAt.After(ls[j].ObservedAt)
	})
}

func topListings(ls []Listing, n int) []Listing {
	if len(ls) <= n {
		return ls
	}
	return ls[:n]
}
