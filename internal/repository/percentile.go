package repository

import "math"

// PercentileCont returns the p-th continuous percentile of sorted, which
// must be in ascending order. It matches PostgreSQL's PERCENTILE_CONT:
// the rank is p*(n-1) and values between ranks are linearly
// interpolated. An empty slice yields 0.
func PercentileCont(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	rank := p * float64(n-1)
	lower := math.Floor(rank)
	upper := math.Ceil(rank)
	lo := sorted[int(lower)]
	if lower == upper {
		return lo
	}
	hi := sorted[int(upper)]
	return lo + (hi-lo)*(rank-lower)
}
