// Package fixedpoint implements the scaled-integer numbers used by every
// resolution computation. A Qm.n value stores x·2^n in an integer; all
// conversions truncate toward zero.
package fixedpoint

import (
	"github.com/pkg/errors"
	"math/big"
)

var (
	ErrOverflow       = errors.New("fixed-point overflow")
	ErrDivisionByZero = errors.New("fixed-point division by zero")
	ErrNegative       = errors.New("negative value in unsigned domain")
	ErrInexact        = errors.New("value is not a multiple of 2^-32")
)

const (
	Q16FracBits = 16
	Q32FracBits = 32
	Q64FracBits = 64
)

var (
	big2Pow16  = new(big.Int).Lsh(big.NewInt(1), Q16FracBits)
	big2Pow32  = new(big.Int).Lsh(big.NewInt(1), Q32FracBits)
	big2Pow64  = new(big.Int).Lsh(big.NewInt(1), Q64FracBits)
	big5Pow32  = new(big.Int).Exp(big.NewInt(5), big.NewInt(Q32FracBits), nil)
	maxInt64   = big.NewInt(int64(^uint64(0) >> 1))
	minInt64   = new(big.Int).Neg(new(big.Int).Add(maxInt64, big.NewInt(1)))
	maxUint64  = new(big.Int).SetUint64(^uint64(0))
	maxInt128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	bigTen     = big.NewInt(10)
	maxDecimal = uint8(38)
)

// quoTrunc divides by a power of two rounding toward zero. big.Int.Rsh floors
// negative numbers, so Quo is used instead.
func quoTrunc(x, pow *big.Int) *big.Int {
	return new(big.Int).Quo(x, pow)
}

func fitsInt64(x *big.Int) bool {
	return x.Cmp(maxInt64) <= 0 && x.Cmp(minInt64) >= 0
}

func fitsUint64(x *big.Int) bool {
	return x.Sign() >= 0 && x.Cmp(maxUint64) <= 0
}

func fitsInt128(x *big.Int) bool {
	return x.Cmp(maxInt128) <= 0 && x.Cmp(minInt128) >= 0
}

func pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(bigTen, big.NewInt(int64(decimals)), nil)
}
