package assets

import "math"

// Rate converts amounts between two assets at a fixed exchange rate.
type Rate struct {
	value float64
}

// NewRate wraps a computed rate value.
func NewRate(value float64) Rate {
	return Rate{value: value}
}

// Value returns the raw rate.
func (r Rate) Value() float64 {
	return r.value
}

// Exchange converts an amount of the from asset into the to asset. The rate
// is rounded to 8 decimal places first, matching the precision assets are
// quoted at.
func (r Rate) Exchange(amount float64) float64 {
	return amount * roundToPrecision(r.value)
}

// ExchangeReverse converts an amount of the to asset back into the from
// asset. A zero rate yields zero; it never divides by zero.
func (r Rate) ExchangeReverse(amount float64) float64 {
	if r.value == 0 {
		return 0
	}
	return amount / r.value
}

func roundToPrecision(value float64) float64 {
	const shift = 1e8
	return math.Round(value*shift) / shift
}
