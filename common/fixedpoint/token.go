package fixedpoint

import (
	"github.com/idena-network/idena-oracle/common/math"
	"github.com/shopspring/decimal"
	"math/big"
)

// ScaleUp converts whole token units into base units.
func ScaleUp(amount uint64, decimals uint8) (uint64, error) {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), int32(decimals))
	r := math.ToInt(&d)
	if !fitsUint64(r) {
		return 0, ErrOverflow
	}
	return r.Uint64(), nil
}

// ScaleDown converts base units into whole token units, truncating.
func ScaleDown(amount uint64, decimals uint8) uint64 {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
	return math.ToInt(&d).Uint64()
}
