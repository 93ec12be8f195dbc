package pricing

type Strategy string

const (
	StrategyMatchOffer         Strategy = "match_offer"
	StrategyEducateAndCounter  Strategy = "educate_and_counter"
	StrategyValueReinforcement Strategy = "value_reinforcement"
	StrategyPriceDrop          Strategy = "price_drop"
)

func (s Strategy) Valid() bool {
	switch s {
	case StrategyMatchOffer, StrategyEducateAndCounter, StrategyValueReinforcement, StrategyPriceDrop:
		return true
	default:
		return false
	}
}

// Source records which path produced a recommendation.
type Source string

const (
	SourceAdvisory Source = "advisory"
	SourceFallback Source = "fallback"
	SourceLadder   Source = "ladder"
)

type Recommendation struct {
	Strategy         Strategy `json:"strategy"`
	RecommendedPrice float64  `json:"recommended_price"`
	Reasoning        string   `json:"reasoning"`
	MessageAngle     string   `json:"message_angle"`
	Source           Source   `json:"source"`
}
