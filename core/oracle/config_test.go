package oracle

import (
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	"github.com/idena-network/idena-oracle/tests"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig(tests.GetRandAddr(), tests.GetRandAddr())
	require.NoError(t, cfg.Validate())

	broken := *cfg
	broken.VoteStakeRate = 1
	require.Equal(t, ErrInvalidStakeRate, broken.Validate())

	broken = *cfg
	broken.RevealLength = 0
	require.Equal(t, ErrInvalidPeriod, broken.Validate())

	broken = *cfg
	broken.RequiredVotesFraction = fixedpoint.Q16One + 1
	require.Equal(t, ErrInvalidQuorum, broken.Validate())

	broken = *cfg
	broken.RevealCapacity = MaxRevealCapacity + 1
	require.Equal(t, ErrInvalidRevealCapacity, broken.Validate())

	broken = *cfg
	broken.ProtocolFeeRate = 0
	require.Equal(t, ErrInvalidFeeRate, broken.Validate())
}

func TestConfig_RequiredVotes(t *testing.T) {
	cfg := DefaultConfig(tests.GetRandAddr(), tests.GetRandAddr())
	cfg.RequiredVotesFraction = fixedpoint.Q16One / 4
	cfg.DefaultRequiredVotes = 5

	required, err := cfg.RequiredVotes(1000)
	require.NoError(t, err)
	require.Equal(t, uint64(250), required)

	required, err = cfg.RequiredVotes(20)
	require.NoError(t, err)
	require.Equal(t, uint64(5), required)
}

func TestConfig_Update(t *testing.T) {
	authority := tests.GetRandAddr()
	cfg := DefaultConfig(tests.GetRandAddr(), authority)

	_, err := cfg.Update(tests.GetRandAddr(), VotingLengthField, 10)
	require.Equal(t, ErrUnauthorized, errors.Cause(err))

	change, err := cfg.Update(authority, VotingLengthField, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(DefaultVotingLength), change.Before)
	require.Equal(t, uint64(10), change.After)
	require.Equal(t, int64(10), cfg.VotingLength)

	_, err = cfg.Update(authority, VoteStakeRateField, 1)
	require.Equal(t, ErrInvalidStakeRate, err)
	require.Equal(t, DefaultVoteStakeRate, cfg.VoteStakeRate)

	_, err = cfg.Update(authority, ProtocolFeeRateField, 1<<33)
	require.Equal(t, ErrOverflowU32, err)

	_, err = cfg.Update(authority, ConfigField(99), 1)
	require.Equal(t, ErrUnknownConfigField, err)
}

func TestParseConfigField(t *testing.T) {
	for f := VotingLengthField; f <= ProtocolFeeRateField; f++ {
		parsed, err := ParseConfigField(f.String())
		require.NoError(t, err)
		require.Equal(t, f, parsed)
	}
	_, err := ParseConfigField("decimals")
	require.Equal(t, ErrUnknownConfigField, err)
}
