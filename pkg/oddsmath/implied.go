package oddsmath

import "fmt"

// MinDecimalPrice is the lowest decimal price treated as a real quote.
// Anything below encodes no payout and is rejected as malformed.
const MinDecimalPrice = 1.01

// Implied converts decimal odds to implied probability.
// Decimal 2.00 → 0.50, decimal 1.90 → 0.526.
func Implied(decimal float64) (float64, error) {
	if decimal < MinDecimalPrice {
		return 0, fmt.Errorf("invalid decimal odds %.4f: must be >= %.2f", decimal, MinDecimalPrice)
	}
	return 1.0 / decimal, nil
}

// Mean returns the arithmetic mean of probabilities.
func Mean(probs []float64) (float64, error) {
	if len(probs) == 0 {
		return 0, fmt.Errorf("no probabilities provided")
	}
	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	return sum / float64(len(probs)), nil
}

// Renormalize scales probabilities so they sum to 1, removing the
// cross-bookmaker overround inconsistency. The input order is preserved.
func Renormalize(probs []float64) ([]float64, error) {
	if len(probs) == 0 {
		return nil, fmt.Errorf("no probabilities provided")
	}
	total := 0.0
	for _, p := range probs {
		if p <= 0 {
			return nil, fmt.Errorf("probability %.4f is not positive", p)
		}
		total += p
	}
	out := make([]float64, len(probs))
	for i, p := range probs {
		out[i] = p / total
	}
	return out, nil
}
