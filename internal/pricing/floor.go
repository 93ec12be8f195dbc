package pricing

const floorSuffix = " (floor price enforced)"

// EnforceFloor clamps the recommended price to floor and reports whether it clamped.
// Every path that emits a price goes through here.
func EnforceFloor(rec Recommendation, floor float64) (Recommendation, bool) {
	if validPrice(rec.RecommendedPrice) && rec.RecommendedPrice >= floor {
		return rec, false
	}
	rec.RecommendedPrice = floor
	rec.Reasoning += floorSuffix
	return rec, true
}
