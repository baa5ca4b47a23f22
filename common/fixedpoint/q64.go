package fixedpoint

import (
	"github.com/shopspring/decimal"
	"math/big"
)

// Q64 is a signed Q64.64 number held in 128 bits. The zero value is 0.
type Q64 struct {
	raw *big.Int
}

func NewQ64(raw *big.Int) (Q64, error) {
	if !fitsInt128(raw) {
		return Q64{}, ErrOverflow
	}
	return Q64{raw: new(big.Int).Set(raw)}, nil
}

func Q64FromInt(v int64) Q64 {
	return Q64{raw: new(big.Int).Lsh(big.NewInt(v), Q64FracBits)}
}

func Q64FromUint64(v uint64) Q64 {
	return Q64{raw: new(big.Int).Lsh(new(big.Int).SetUint64(v), Q64FracBits)}
}

func (q Q64) bigInt() *big.Int {
	if q.raw == nil {
		return new(big.Int)
	}
	return q.raw
}

func q64FromBig(x *big.Int) (Q64, error) {
	if !fitsInt128(x) {
		return Q64{}, ErrOverflow
	}
	return Q64{raw: x}, nil
}

// Raw returns a copy of the scaled integer.
func (q Q64) Raw() *big.Int {
	return new(big.Int).Set(q.bigInt())
}

func (q Q64) Sign() int {
	return q.bigInt().Sign()
}

func (q Q64) IsZero() bool {
	return q.Sign() == 0
}

func (q Q64) Cmp(o Q64) int {
	return q.bigInt().Cmp(o.bigInt())
}

func (q Q64) Neg() Q64 {
	return Q64{raw: new(big.Int).Neg(q.bigInt())}
}

func (q Q64) Add(o Q64) (Q64, error) {
	return q64FromBig(new(big.Int).Add(q.bigInt(), o.bigInt()))
}

func (q Q64) Sub(o Q64) (Q64, error) {
	return q64FromBig(new(big.Int).Sub(q.bigInt(), o.bigInt()))
}

func (q Q64) Mul(o Q64) (Q64, error) {
	return q64FromBig(quoTrunc(new(big.Int).Mul(q.bigInt(), o.bigInt()), big2Pow64))
}

// MulQ32 multiplies by a Q32.32 value keeping the Q64.64 scale.
func (q Q64) MulQ32(o Q32) (Q64, error) {
	return q64FromBig(quoTrunc(new(big.Int).Mul(q.bigInt(), o.big()), big2Pow32))
}

// ToQ32 drops 32 fractional bits, failing when the integer part exceeds 32 bits.
func (q Q64) ToQ32() (Q32, error) {
	return q32FromBig(quoTrunc(q.bigInt(), big2Pow32))
}

// Float64 returns the nearest float64.
func (q Q64) Float64() float64 {
	f := new(big.Float).SetInt(q.bigInt())
	f.SetMantExp(f, -Q64FracBits)
	r, _ := f.Float64()
	return r
}

func (q Q64) Decimal() decimal.Decimal {
	pow := new(big.Int).Exp(big.NewInt(5), big.NewInt(Q64FracBits), nil)
	return decimal.NewFromBigInt(new(big.Int).Mul(q.bigInt(), pow), -Q64FracBits)
}

func (q Q64) String() string {
	return q.Decimal().String()
}

// DivUint64Q32 returns v/q as a Q32.32, the shape of a precision estimate
// (weight over a sum of squares).
func DivUint64Q32(v uint64, q Q64) (Q32, error) {
	if q.IsZero() {
		return 0, ErrDivisionByZero
	}
	n := new(big.Int).Lsh(new(big.Int).SetUint64(v), Q64FracBits+Q32FracBits)
	return q32FromBig(n.Quo(n, q.bigInt()))
}
