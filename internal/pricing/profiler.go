package pricing

import (
	"math"
	"strings"

	types "github.com/yungbote/pricing-engine/internal/domain"
)

var (
	priceKeywords = []string{
		"last price", "how much last", "reduce", "too cost",
		"can you drop", "cheaper", "i see am for", "too much",
	}
	qualityKeywords = []string{
		"original", "na original", "strong", "which model",
		"warranty", "how long", "fake", "real", "durable",
	}
	negativeWords = []string{"hate", "expensive", "too much", "cheap", "dont want", "don't want", "not interested"}
	premiumBrands = []string{"iphone", "samsung galaxy s", "macbook"}
)

type Classification struct {
	CustomerType types.CustomerType `json:"customer_type"`
	Confidence   float64            `json:"confidence"`
	KeySignals   []string           `json:"key_signals"`
}

// ClassifyMessage is a keyword classifier over one customer message. Negative
// sentiment about a premium brand reads as price sensitivity.
func ClassifyMessage(message string) Classification {
	msg := strings.ToLower(message)

	if containsAny(msg, negativeWords) && containsAny(msg, premiumBrands) {
		return Classification{
			CustomerType: types.CustomerPriceSensitive,
			Confidence:   0.8,
			KeySignals:   []string{"negative_premium_context"},
		}
	}

	priceHits := matching(msg, priceKeywords)
	qualityHits := matching(msg, qualityKeywords)
	switch {
	case len(priceHits) > len(qualityHits):
		return Classification{
			CustomerType: types.CustomerPriceSensitive,
			Confidence:   keywordConfidence(len(priceHits)),
			KeySignals:   priceHits,
		}
	case len(qualityHits) > len(priceHits):
		return Classification{
			CustomerType: types.CustomerQualitySensitive,
			Confidence:   keywordConfidence(len(qualityHits)),
			KeySignals:   qualityHits,
		}
	default:
		return Classification{CustomerType: types.CustomerUnknown, Confidence: 0.5, KeySignals: []string{}}
	}
}

// ResolveCustomerType folds recent signals into a customer type. It needs at least
// two signals; ties and thin evidence keep the current type.
func ResolveCustomerType(current types.CustomerType, signals []*types.CustomerSignal) types.CustomerType {
	if len(signals) < 2 {
		return current
	}
	var price, quality float64
	for _, s := range signals {
		switch s.SignalType {
		case types.CustomerPriceSensitive:
			price += s.Confidence
		case types.CustomerQualitySensitive:
			quality += s.Confidence
		}
	}
	switch {
	case price > quality:
		return types.CustomerPriceSensitive
	case quality > price:
		return types.CustomerQualitySensitive
	default:
		return current
	}
}

func keywordConfidence(hits int) float64 {
	return math.Min(roundProb(0.6+float64(hits)*0.1), 0.9)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func matching(s string, words []string) []string {
	out := []string{}
	for _, w := range words {
		if strings.Contains(s, w) {
			out = append(out, w)
		}
	}
	return out
}
