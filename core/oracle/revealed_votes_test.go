package oracle

import (
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	"github.com/stretchr/testify/require"
	"testing"
)

func revealedAccount(proposal string, power uint32, vote int64) *VoteAccount {
	return &VoteAccount{
		Proposal:     proposal,
		VotePower:    power,
		Vote:         fixedpoint.MustQ32FromInt(vote),
		RevealedVote: true,
	}
}

func TestRevealedVoteArray_capacity(t *testing.T) {
	rv := NewRevealedVoteArray("q", 3)
	require.Equal(t, 3, rv.Capacity())
	require.Equal(t, -1, rv.LastIndex())

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, rv.Reveal(revealedAccount("q", 2, i)))
	}
	require.Equal(t, ErrFullRevealList, rv.Reveal(revealedAccount("q", 2, 4)))
	require.Equal(t, 2, rv.LastIndex())
	require.Equal(t, []fixedpoint.Q32{
		fixedpoint.MustQ32FromInt(2),
		fixedpoint.MustQ32FromInt(4),
		fixedpoint.MustQ32FromInt(6),
	}, rv.Votes())
}

func TestRevealedVoteArray_rejects(t *testing.T) {
	rv := NewRevealedVoteArray("q", 3)

	hidden := revealedAccount("q", 1, 1)
	hidden.RevealedVote = false
	require.Equal(t, ErrVoteNotRevealed, rv.Reveal(hidden))
	require.Equal(t, ErrProposalMismatch, rv.Reveal(revealedAccount("other", 1, 1)))

	huge := revealedAccount("q", ^uint32(0), 1<<30)
	require.Equal(t, ErrOverflowU64, rv.Reveal(huge))
	require.Zero(t, rv.Len())
}

func TestRevealedVoteArray_negativeVotes(t *testing.T) {
	rv := NewRevealedVoteArray("q", 2)
	require.NoError(t, rv.Reveal(revealedAccount("q", 3, -5)))
	require.NoError(t, rv.Reveal(revealedAccount("q", 1, 5)))
	require.Equal(t, fixedpoint.MustQ32FromInt(-15), rv.At(0))

	ssd, err := rv.SumSquaredDeviation(0)
	require.NoError(t, err)
	require.Zero(t, ssd.Cmp(fixedpoint.Q64FromInt(250)))
}

func TestRestoreRevealedVoteArray(t *testing.T) {
	votes := []fixedpoint.Q32{fixedpoint.Q32One, -fixedpoint.Q32One}
	rv, err := RestoreRevealedVoteArray("q", 4, votes)
	require.NoError(t, err)
	require.Equal(t, 2, rv.Len())
	require.Equal(t, 4, rv.Capacity())
	require.Equal(t, votes, rv.Votes())

	_, err = RestoreRevealedVoteArray("q", 1, votes)
	require.Equal(t, ErrFullRevealList, err)
}

func TestRevealedVoteArray_wideDeviation(t *testing.T) {
	rv := NewRevealedVoteArray("q", 1)
	require.NoError(t, rv.Reveal(revealedAccount("q", 1, 1<<31-1)))

	// the distance to the consensus does not fit Q32.32
	consensus := fixedpoint.MustQ32FromInt(-(1 << 29))
	_, err := rv.At(0).Sub(consensus)
	require.Equal(t, fixedpoint.ErrOverflow, err)

	ssd, err := rv.SumSquaredDeviation(consensus)
	require.NoError(t, err)
	d := int64(1<<31 - 1 + 1<<29)
	require.Zero(t, ssd.Cmp(fixedpoint.Q64FromInt(d*d)))
}
