package pricing

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// meanOf returns the arithmetic mean rounded to kobo.
func meanOf(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(dec(p))
	}
	return sum.Div(decimal.NewFromInt(int64(len(prices)))).Round(2).InexactFloat64()
}

func roundMoney(v float64) float64 {
	return dec(v).Round(2).InexactFloat64()
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatNaira renders whole naira with thousands separators, e.g. ₦110,000.
func FormatNaira(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "₦0"
	}
	s := dec(v).Round(0).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-₦" + b.String()
	}
	return "₦" + b.String()
}
