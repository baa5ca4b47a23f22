package fixedpoint

import "math"

// Exp approximates e^x as 2^(x·log2 e). The exponent is lowered to float64,
// the power is evaluated there and the result is re-quantized by truncation.
// This is the only place where precision is traded for cost; results are
// deterministic for a given input.
func Exp(x Q64) (Q32, error) {
	f := x.Float64()
	r := math.Pow(2, f*math.Log2E)
	if math.IsInf(r, 0) || r >= float64(maxQ32Int)+1 {
		return 0, ErrOverflow
	}
	return Q32FromFloat64(r)
}
