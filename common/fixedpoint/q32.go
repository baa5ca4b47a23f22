package fixedpoint

import (
	"github.com/idena-network/idena-oracle/common/math"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	gomath "math"
	"math/big"
)

// Q32 is a signed Q32.32 number.
type Q32 int64

const (
	Q32One  = Q32(1 << Q32FracBits)
	Q32Zero = Q32(0)

	maxQ32Int = 1<<31 - 1
	minQ32Int = -(1 << 31)
)

// Q32FromInt converts an integer, failing when it does not fit 32 integer bits.
func Q32FromInt(v int64) (Q32, error) {
	if v > maxQ32Int || v < minQ32Int {
		return 0, ErrOverflow
	}
	return Q32(v << Q32FracBits), nil
}

func MustQ32FromInt(v int64) Q32 {
	q, err := Q32FromInt(v)
	if err != nil {
		panic(err)
	}
	return q
}

func q32FromBig(x *big.Int) (Q32, error) {
	if !fitsInt64(x) {
		return 0, ErrOverflow
	}
	return Q32(x.Int64()), nil
}

func (q Q32) Raw() int64 {
	return int64(q)
}

func (q Q32) big() *big.Int {
	return big.NewInt(int64(q))
}

func (q Q32) Sign() int {
	switch {
	case q > 0:
		return 1
	case q < 0:
		return -1
	}
	return 0
}

func (q Q32) Add(o Q32) (Q32, error) {
	return q32FromBig(new(big.Int).Add(q.big(), o.big()))
}

func (q Q32) Sub(o Q32) (Q32, error) {
	return q32FromBig(new(big.Int).Sub(q.big(), o.big()))
}

func (q Q32) Mul(o Q32) (Q32, error) {
	return q32FromBig(quoTrunc(new(big.Int).Mul(q.big(), o.big()), big2Pow32))
}

func (q Q32) Div(o Q32) (Q32, error) {
	if o == 0 {
		return 0, ErrDivisionByZero
	}
	n := new(big.Int).Mul(q.big(), big2Pow32)
	return q32FromBig(n.Quo(n, o.big()))
}

func (q Q32) MulInt(v int64) (Q32, error) {
	return q32FromBig(new(big.Int).Mul(q.big(), big.NewInt(v)))
}

func (q Q32) MulUint64(v uint64) (Q32, error) {
	return q32FromBig(new(big.Int).Mul(q.big(), new(big.Int).SetUint64(v)))
}

func (q Q32) DivUint64(v uint64) (Q32, error) {
	if v == 0 {
		return 0, ErrDivisionByZero
	}
	return q32FromBig(new(big.Int).Quo(q.big(), new(big.Int).SetUint64(v)))
}

func (q Q32) Abs() (Q32, error) {
	if q < 0 {
		return q32FromBig(new(big.Int).Neg(q.big()))
	}
	return q, nil
}

// IntPart returns the integer part truncated toward zero.
func (q Q32) IntPart() int64 {
	return new(big.Int).Quo(q.big(), big2Pow32).Int64()
}

// Square returns q² exactly: the product of two Q32.32 raws is a Q64.64 raw.
func (q Q32) Square() Q64 {
	return Q64{raw: new(big.Int).Mul(q.big(), q.big())}
}

func (q Q32) ToQ64() Q64 {
	return Q64{raw: new(big.Int).Lsh(q.big(), Q64FracBits-Q32FracBits)}
}

func (q Q32) Float64() float64 {
	return float64(q) / float64(Q32One)
}

// Q32FromFloat64 truncates f to 32 fractional bits.
func Q32FromFloat64(f float64) (Q32, error) {
	if gomath.IsNaN(f) || gomath.IsInf(f, 0) {
		return 0, ErrOverflow
	}
	scaled := gomath.Trunc(gomath.Ldexp(f, Q32FracBits))
	if scaled >= 0x1p63 || scaled < -0x1p63 {
		return 0, ErrOverflow
	}
	return Q32(int64(scaled)), nil
}

// Decimal returns the exact decimal value of q; 2^-32 = 5^32·10^-32.
func (q Q32) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).Mul(q.big(), big5Pow32), -Q32FracBits)
}

// String renders the exact decimal value without trailing zeros.
func (q Q32) String() string {
	return q.Decimal().String()
}

func (q Q32) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Q32) UnmarshalText(input []byte) error {
	v, err := ParseQ32(string(input))
	if err != nil {
		return err
	}
	*q = v
	return nil
}

// ParseQ32 parses a decimal string, truncating digits below 2^-32.
func ParseQ32(s string) (Q32, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return Q32FromDecimal(d)
}

// ParseExactQ32 parses a decimal string that Q32.32 holds without truncation.
// The result prints back as the same number.
func ParseExactQ32(s string) (Q32, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	q, err := Q32FromDecimal(d)
	if err != nil {
		return 0, err
	}
	if !q.Decimal().Equal(d) {
		return 0, errors.Wrapf(ErrInexact, "%v would be stored as %v", s, q)
	}
	return q, nil
}

func Q32FromDecimal(d decimal.Decimal) (Q32, error) {
	scaled := d.Mul(decimal.NewFromBigInt(big2Pow32, 0))
	return q32FromBig(math.ToInt(&scaled))
}

// FromTokenAmount converts amount base units of a token with the given decimals.
func FromTokenAmount(amount uint64, decimals uint8) (Q32, error) {
	if decimals > maxDecimal {
		return 0, ErrOverflow
	}
	n := new(big.Int).Lsh(new(big.Int).SetUint64(amount), Q32FracBits)
	return q32FromBig(n.Quo(n, pow10(decimals)))
}

// ToTokenAmount returns floor(q·10^decimals) base units.
func (q Q32) ToTokenAmount(decimals uint8) (uint64, error) {
	if q < 0 {
		return 0, ErrNegative
	}
	if decimals > maxDecimal {
		return 0, ErrOverflow
	}
	n := new(big.Int).Mul(q.big(), pow10(decimals))
	n.Quo(n, big2Pow32)
	if !fitsUint64(n) {
		return 0, ErrOverflow
	}
	return n.Uint64(), nil
}
