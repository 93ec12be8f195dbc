package pricing

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var ErrNoOffer = errors.New("no offer found in message")

var (
	offerFigure = regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})+|\d+)(\.\d+)?(\s*k\b)?`)
	offerCue    = regexp.MustCompile(`\b(pay|paying|offer|give|budget|take|drop|do|make it|i fit|i go|i can|last|final)\b`)
	trailingCue = regexp.MustCompile(`^\s*(last|final)\b`)
	clauseBreak = regexp.MustCompile(`[,.;!?]|\bbut\b`)
)

type offerCandidate struct {
	value  float64
	cued   bool
	marked bool
}

// ExtractOffer pulls the customer's offered price out of free text. A figure counts
// when it carries a currency marker or falls inside [listed*min, listed*max].
// Figures introduced by an offer cue ("I'll pay", "my budget", "last") beat the
// rest, so quoted or compared prices lose to the actual offer. Marked figures come
// next, and closeness to the listed price breaks the remaining ties. With no listed
// price only marked figures count and the largest wins the tie-break.
func ExtractOffer(text string, listed float64, cfg Config) (float64, error) {
	cfg = cfg.Normalize()

	var candidates []offerCandidate
	prevEnd := 0
	for _, m := range offerFigure.FindAllStringSubmatchIndex(text, -1) {
		lead := text[prevEnd:m[0]]
		prevEnd = m[1]
		marked := hasCurrencyMarker(text[:m[0]], text[m[1]:])
		// skip digits glued to letters (model numbers like S22, 256GB) unless it is a currency marker
		if m[0] > 0 {
			r, _ := utf8.DecodeLastRuneInString(text[:m[0]])
			if r == '.' || unicode.IsDigit(r) || (unicode.IsLetter(r) && !marked) {
				continue
			}
		}
		if m[1] < len(text) {
			if r, _ := utf8.DecodeRuneInString(text[m[1]:]); unicode.IsLetter(r) && !marked {
				continue
			}
		}

		whole := strings.ReplaceAll(text[m[2]:m[3]], ",", "")
		if m[4] >= 0 {
			whole += text[m[4]:m[5]]
		}
		v, err := decimal.NewFromString(whole)
		if err != nil {
			continue
		}
		if m[6] >= 0 {
			v = v.Mul(decimal.NewFromInt(1000))
		}
		f := v.InexactFloat64()
		if f <= 0 {
			continue
		}
		candidates = append(candidates, offerCandidate{
			value:  f,
			cued:   hasOfferCue(lead, text[m[1]:]),
			marked: marked,
		})
	}

	var (
		best  offerCandidate
		found bool
	)
	for _, c := range candidates {
		inBand := listed > 0 && c.value >= listed*cfg.OfferMinRatio && c.value <= listed*cfg.OfferMaxRatio
		if !c.marked && !inBand {
			continue
		}
		if !found || outranks(c, best, listed) {
			best, found = c, true
		}
	}
	if !found {
		return 0, ErrNoOffer
	}
	return roundMoney(best.value), nil
}

func outranks(c, best offerCandidate, listed float64) bool {
	if c.cued != best.cued {
		return c.cued
	}
	if c.marked != best.marked {
		return c.marked
	}
	if listed > 0 {
		return math.Abs(c.value-listed) < math.Abs(best.value-listed)
	}
	return c.value > best.value
}

// hasOfferCue looks for a cue in the clause leading up to a figure, or a
// "last"/"final" right after it.
func hasOfferCue(lead, after string) bool {
	lead = strings.ToLower(lead)
	if locs := clauseBreak.FindAllStringIndex(lead, -1); len(locs) > 0 {
		lead = lead[locs[len(locs)-1][1]:]
	}
	return offerCue.MatchString(lead) || trailingCue.MatchString(strings.ToLower(after))
}

func hasCurrencyMarker(before, after string) bool {
	b := strings.ToLower(strings.TrimRightFunc(before, unicode.IsSpace))
	a := strings.ToLower(strings.TrimLeftFunc(after, unicode.IsSpace))

	if strings.HasPrefix(a, "naira") || strings.HasPrefix(a, "ngn") {
		return true
	}
	if strings.HasSuffix(b, "₦") || strings.HasSuffix(b, "naira") || strings.HasSuffix(b, "ngn") {
		return true
	}
	// a bare "N" prefix only counts as a standalone token, not the end of a word
	if strings.HasSuffix(b, "n") {
		rest := strings.TrimSuffix(b, "n")
		if rest == "" {
			return true
		}
		r, _ := utf8.DecodeLastRuneInString(rest)
		return !unicode.IsLetter(r)
	}
	return false
}
