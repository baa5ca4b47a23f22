package state

import (
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	"github.com/idena-network/idena-oracle/core/oracle"
	"github.com/idena-network/idena-oracle/tests"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestEncoding_fixedWidth(t *testing.T) {
	cfg := oracle.DefaultConfig(tests.GetRandAddr(), tests.GetRandAddr())
	require.Len(t, EncodeConfig(cfg), ConfigSize)

	p := testProposal(strings.Repeat("n", oracle.MaxNameLength))
	p.Description = strings.Repeat("d", oracle.MaxDescriptionLength)
	p.Locked = true
	data := EncodeProposal(p)
	require.Len(t, data, ProposalSize)
	decoded, err := DecodeProposal(data)
	require.NoError(t, err)
	require.Equal(t, p, decoded)

	require.Len(t, EncodeVoteAccount(&oracle.VoteAccount{}), VoteAccountSize)
	require.Len(t, EncodeRevealedVotes(oracle.NewRevealedVoteArray("q", 10)), RevealedVotesHeaderSize+80)
}

func TestEncoding_voteAccountFlags(t *testing.T) {
	v := &oracle.VoteAccount{
		Owner:        tests.GetRandAddr(),
		Proposal:     "q",
		VoteHash:     oracle.VoteHash(fixedpoint.Q32One, "s"),
		Vote:         -fixedpoint.Q32One,
		VotePower:    ^uint32(0),
		Staked:       ^uint64(0),
		RevealedVote: true,
	}
	decoded, err := DecodeVoteAccount("q", EncodeVoteAccount(v))
	require.NoError(t, err)
	require.Equal(t, v, decoded)

	v.Locked, v.RevealedVote = true, false
	decoded, err = DecodeVoteAccount("q", EncodeVoteAccount(v))
	require.NoError(t, err)
	require.True(t, decoded.Locked)
	require.False(t, decoded.RevealedVote)
}

func TestEncoding_invalidLayout(t *testing.T) {
	_, err := DecodeConfig(make([]byte, ConfigSize-1))
	require.Equal(t, ErrInvalidLayout, err)
	_, err = DecodeProposal(make([]byte, ProposalSize+1))
	require.Equal(t, ErrInvalidLayout, err)

	data := EncodeRevealedVotes(oracle.NewRevealedVoteArray("q", 2))
	data[3] = 3
	_, err = DecodeRevealedVotes("q", data)
	require.Equal(t, ErrInvalidLayout, err)

	broken := EncodeProposal(testProposal("q"))
	broken[0] = oracle.MaxNameLength + 1
	_, err = DecodeProposal(broken)
	require.Equal(t, ErrInvalidLayout, err)
}
