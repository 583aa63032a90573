package valueobject

import "math"

// Precision is the number of decimal digits coordinates are rounded to
// when an extent is reported. A negative value disables rounding.
type Precision int

const (
	// PrecisionFull reports coordinates exactly as captured.
	PrecisionFull Precision = -1

	// DefaultPrecision matches the three decimals used for display.
	DefaultPrecision Precision = 3
)

func (p Precision) Rounds() bool {
	return p >= 0
}

// Round rounds v to p decimal digits, halves away from zero. A negative
// precision returns v unchanged.
func (p Precision) Round(v float64) float64 {
	if !p.Rounds() {
		return v
	}
	scale := math.Pow(10, float64(p))
	r := math.Round(v*scale) / scale
	if r == 0 {
		// avoid reporting negative zero
		r = 0
	}
	return r
}
