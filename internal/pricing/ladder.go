package pricing

import "fmt"

type LadderStatus string

const (
	LadderAccepted LadderStatus = "accepted"
	LadderCounter  LadderStatus = "counter_offer"
	LadderRejected LadderStatus = "rejected"
)

const (
	NextStepCollectDelivery = "collect_delivery_info"
	NextStepAwaitReply      = "await_customer_reply"
)

type LadderOutcome struct {
	Status   LadderStatus `json:"status"`
	Price    float64      `json:"price"`
	Message  string       `json:"message"`
	NextStep string       `json:"next_step"`
}

// Strategy maps a ladder outcome onto the audit strategy vocabulary.
func (o LadderOutcome) Strategy() Strategy {
	switch o.Status {
	case LadderAccepted:
		return StrategyMatchOffer
	case LadderCounter:
		return StrategyEducateAndCounter
	default:
		return StrategyValueReinforcement
	}
}

// Ladder answers an explicit offer against the floor. It never calls out and always answers.
//
//	offered >= floor                 accepted at offered
//	floor*band <= offered < floor    counter at floor+increment
//	offered < floor*band             rejected, floor restated
func Ladder(offered, floor float64, cfg Config) LadderOutcome {
	cfg = cfg.Normalize()
	off := dec(offered)
	fl := dec(floor)
	band := fl.Mul(dec(cfg.CounterBand))

	switch {
	case validPrice(offered) && off.GreaterThanOrEqual(fl):
		price := off.InexactFloat64()
		return LadderOutcome{
			Status:   LadderAccepted,
			Price:    price,
			Message:  fmt.Sprintf("Deal! %s it is. Please send your delivery address and a phone number we can reach you on.", FormatNaira(price)),
			NextStep: NextStepCollectDelivery,
		}
	case validPrice(offered) && off.GreaterThanOrEqual(band):
		price := fl.Add(dec(cfg.LadderIncrement)).InexactFloat64()
		return LadderOutcome{
			Status:   LadderCounter,
			Price:    price,
			Message:  fmt.Sprintf("I can't go that low, but %s is my final price for the original.", FormatNaira(price)),
			NextStep: NextStepAwaitReply,
		}
	default:
		price := fl.InexactFloat64()
		return LadderOutcome{
			Status:   LadderRejected,
			Price:    price,
			Message:  fmt.Sprintf("The best I can do is %s. It's 100%% original with full warranty, no clones.", FormatNaira(price)),
			NextStep: NextStepAwaitReply,
		}
	}
}
