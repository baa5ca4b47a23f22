package fixedpoint

import (
	"github.com/shopspring/decimal"
	"math/big"
)

// Q16 is an unsigned Q16.16 number.
type Q16 uint32

const Q16One = Q16(1 << Q16FracBits)

func Q16FromInt(v uint16) Q16 {
	return Q16(uint32(v) << Q16FracBits)
}

// Q16FromRatio returns num/den truncated to 16 fractional bits.
func Q16FromRatio(num, den uint64) (Q16, error) {
	if den == 0 {
		return 0, ErrDivisionByZero
	}
	r := new(big.Int).Lsh(new(big.Int).SetUint64(num), Q16FracBits)
	r.Quo(r, new(big.Int).SetUint64(den))
	if !r.IsUint64() || r.Uint64() > uint64(^uint32(0)) {
		return 0, ErrOverflow
	}
	return Q16(r.Uint64()), nil
}

func (q Q16) Raw() uint32 {
	return uint32(q)
}

// MulUint64 returns floor(v·q).
func (q Q16) MulUint64(v uint64) (uint64, error) {
	r := new(big.Int).Mul(new(big.Int).SetUint64(v), big.NewInt(int64(q)))
	r.Quo(r, big2Pow16)
	if !fitsUint64(r) {
		return 0, ErrOverflow
	}
	return r.Uint64(), nil
}

func (q Q16) ToQ32() Q32 {
	return Q32(int64(q) << (Q32FracBits - Q16FracBits))
}

func (q Q16) Float64() float64 {
	return float64(q) / float64(Q16One)
}

func (q Q16) String() string {
	return q.ToQ32().String()
}

func ParseQ16(s string) (Q16, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if d.Sign() < 0 {
		return 0, ErrNegative
	}
	v, err := ParseQ32(s)
	if err != nil {
		return 0, err
	}
	raw := int64(v) >> (Q32FracBits - Q16FracBits)
	if raw > int64(^uint32(0)) {
		return 0, ErrOverflow
	}
	return Q16(raw), nil
}
