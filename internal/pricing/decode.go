package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseFailure describes why an advisory reply could not be used.
type ParseFailure struct {
	Reason string
	Raw    string
}

func (p *ParseFailure) Error() string {
	return "advisory reply rejected: " + p.Reason
}

func parseFailure(raw, format string, args ...any) *ParseFailure {
	return &ParseFailure{Reason: fmt.Sprintf(format, args...), Raw: raw}
}

type advisoryReply struct {
	Strategy         *string          `json:"strategy"`
	RecommendedPrice *json.RawMessage `json:"recommended_price"`
	Reasoning        *string          `json:"reasoning"`
	MessageAngle     *string          `json:"message_angle"`
}

// DecodeRecommendation strictly validates an advisory reply. It returns either a
// Recommendation with Source advisory or a non-nil ParseFailure, never both.
func DecodeRecommendation(raw string) (Recommendation, *ParseFailure) {
	body := stripCodeFences(raw)
	if body == "" {
		return Recommendation{}, parseFailure(raw, "empty reply")
	}
	if i, j := strings.Index(body, "{"), strings.LastIndex(body, "}"); i > 0 && j > i {
		body = body[i : j+1]
	}

	var reply advisoryReply
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	if err := dec.Decode(&reply); err != nil {
		return Recommendation{}, parseFailure(raw, "invalid json: %v", err)
	}
	if reply.Strategy == nil || reply.RecommendedPrice == nil || reply.Reasoning == nil || reply.MessageAngle == nil {
		return Recommendation{}, parseFailure(raw, "missing required field")
	}

	strategy := Strategy(strings.ToLower(strings.TrimSpace(*reply.Strategy)))
	if !strategy.Valid() {
		return Recommendation{}, parseFailure(raw, "unknown strategy %q", *reply.Strategy)
	}
	price, err := decodePrice(*reply.RecommendedPrice)
	if err != nil {
		return Recommendation{}, parseFailure(raw, "recommended_price: %v", err)
	}
	if !validPrice(price) {
		return Recommendation{}, parseFailure(raw, "recommended_price must be positive and finite")
	}
	reasoning := strings.TrimSpace(*reply.Reasoning)
	if reasoning == "" {
		return Recommendation{}, parseFailure(raw, "empty reasoning")
	}

	return Recommendation{
		Strategy:         strategy,
		RecommendedPrice: roundMoney(price),
		Reasoning:        reasoning,
		MessageAngle:     strings.TrimSpace(*reply.MessageAngle),
		Source:           SourceAdvisory,
	}, nil
}

// decodePrice accepts a JSON number or a numeric string such as "₦109,500".
func decodePrice(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("not a number")
	}
	s = strings.NewReplacer("₦", "", ",", "", "NGN", "", " ", "").Replace(strings.TrimSpace(s))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	return f, nil
}

func stripCodeFences(src string) string {
	s := strings.TrimSpace(src)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	body := lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		body = lines[1 : len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}
