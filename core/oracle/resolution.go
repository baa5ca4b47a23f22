package oracle

import (
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	"github.com/pkg/errors"
	"math"
	"math/big"
)

// MaxScaleParameter is the precision stored when every weighted vote sits on
// the consensus and the deviation sum vanishes.
const MaxScaleParameter = fixedpoint.Q32(math.MaxInt64)

// ProposerRewardPerMille is the share of revealed weight paid to the proposer.
const ProposerRewardPerMille = 1

// Payout is what a participant collects. Collateral leaves the proposal vault,
// Reward is issued by the token mint.
type Payout struct {
	Collateral uint64
	Reward     uint64
}

func (p Payout) Total() uint64 {
	return p.Collateral + p.Reward
}

func newPayout(collateral, reward uint64) (Payout, error) {
	if collateral+reward < collateral {
		return Payout{}, ErrOverflowU64
	}
	return Payout{Collateral: collateral, Reward: reward}, nil
}

func overflow64(err error) error {
	if errors.Cause(err) == fixedpoint.ErrOverflow {
		return ErrOverflowU64
	}
	return err
}

// WeightedMean returns sum/weight.
func WeightedMean(sum fixedpoint.Q32, weight uint64) (fixedpoint.Q32, error) {
	if weight == 0 {
		return 0, ErrZeroWeight
	}
	r, err := sum.DivUint64(weight)
	return r, overflow64(err)
}

// Precision estimates weight / Σ(wᵢ − consensus)². A zero deviation sum
// yields MaxScaleParameter; a quotient beyond the Q32.32 range fails.
func Precision(weight uint64, sumSquaredDeviation fixedpoint.Q64) (fixedpoint.Q32, error) {
	if sumSquaredDeviation.IsZero() {
		return MaxScaleParameter, nil
	}
	if sumSquaredDeviation.Sign() < 0 {
		return 0, fixedpoint.ErrNegative
	}
	l, err := fixedpoint.DivUint64Q32(weight, sumSquaredDeviation)
	return l, overflow64(err)
}

// VoteFactor is the reward kernel L·exp(−L·(vote − consensus)²).
func VoteFactor(vote, consensus, scale fixedpoint.Q32) (fixedpoint.Q32, error) {
	d, err := vote.ToQ64().Sub(consensus.ToQ64())
	if err != nil {
		return 0, ErrOverflowU64
	}
	sq, err := d.Mul(d)
	if err != nil {
		return 0, ErrOverflowU64
	}
	x, err := sq.MulQ32(scale)
	if err != nil {
		return 0, ErrOverflowU64
	}
	e, err := fixedpoint.Exp(x.Neg())
	if err != nil {
		return 0, ErrOverflowU64
	}
	factor, err := scale.Mul(e)
	return factor, overflow64(err)
}

// RewardAmount converts votePower × factor into token base units.
func RewardAmount(votePower uint32, factor fixedpoint.Q32, decimals uint8) (uint64, error) {
	if factor < 0 {
		return 0, fixedpoint.ErrNegative
	}
	n := new(big.Int).Mul(big.NewInt(int64(votePower)), big.NewInt(factor.Raw()))
	n.Mul(n, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	n.Rsh(n, fixedpoint.Q32FracBits)
	if !n.IsUint64() {
		return 0, ErrOverflowU64
	}
	return n.Uint64(), nil
}

// ProposerRewardAmount is stake + revealed weight × 0.1%, in base units.
func ProposerRewardAmount(stake, revealedVotes uint64, decimals uint8) (uint64, error) {
	units, err := fixedpoint.ScaleUp(revealedVotes, decimals)
	if err != nil {
		return 0, ErrOverflowU64
	}
	bonus := new(big.Int).Mul(new(big.Int).SetUint64(units), big.NewInt(ProposerRewardPerMille))
	bonus.Quo(bonus, big.NewInt(1000))
	total := bonus.Add(bonus, new(big.Int).SetUint64(stake))
	if !total.IsUint64() {
		return 0, ErrOverflowU64
	}
	return total.Uint64(), nil
}
