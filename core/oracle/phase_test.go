package oracle

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestComputePhase(t *testing.T) {
	base := PhaseSnapshot{
		VoteEndAt:       100,
		VoteEndRevealAt: 200,
		RequiredVotes:   10,
	}
	with := func(f func(s *PhaseSnapshot)) PhaseSnapshot {
		s := base
		f(&s)
		return s
	}
	cases := []struct {
		name     string
		now      int64
		snapshot PhaseSnapshot
		expected Phase
	}{
		{"voting", 50, with(func(s *PhaseSnapshot) { s.Votes = 9 }), Voting},
		{"quorum during voting", 50, with(func(s *PhaseSnapshot) { s.Votes = 10 }), ReachedQuorum},
		{"quorum at voting end", 100, with(func(s *PhaseSnapshot) { s.Votes = 10 }), RevealVote},
		{"no quorum at voting end", 100, with(func(s *PhaseSnapshot) { s.Votes = 9 }), Failed},
		{"reveal", 150, with(func(s *PhaseSnapshot) { s.Votes = 12; s.RevealedVotes = 3 }), RevealVote},
		{"last reveal second", 199, with(func(s *PhaseSnapshot) { s.Votes = 12 }), RevealVote},
		{"reveal finished", 200, with(func(s *PhaseSnapshot) { s.Votes = 12; s.RevealedVotes = 3 }), VoteRevealFinished},
		{"nothing revealed", 200, with(func(s *PhaseSnapshot) { s.Votes = 12 }), Failed},
		{"no quorum after reveal", 300, with(func(s *PhaseSnapshot) { s.Votes = 2; s.RevealedVotes = 2 }), Failed},
		{"calculated", 300, with(func(s *PhaseSnapshot) { s.Votes = 12; s.ScaleParameterCalculated = true }), RewardCalculation},
		{"locked", 300, with(func(s *PhaseSnapshot) { s.ScaleParameterCalculated = true; s.Locked = true }), RewardPayout},
		{"locked wins over time", 0, with(func(s *PhaseSnapshot) { s.Locked = true }), RewardPayout},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, ComputePhase(c.now, c.snapshot), c.name)
	}
}

func TestComputePhase_firstMatchWins(t *testing.T) {
	s := PhaseSnapshot{VoteEndAt: 10, VoteEndRevealAt: 20, Votes: 1, RequiredVotes: 1, RevealedVotes: 1}
	var seen []Phase
	for now := int64(0); now < 30; now++ {
		phase := ComputePhase(now, s)
		matches := 0
		for _, rule := range phaseRules {
			if rule.match(now, s) {
				matches++
			}
		}
		require.True(t, matches <= 1)
		if len(seen) == 0 || seen[len(seen)-1] != phase {
			seen = append(seen, phase)
		}
	}
	require.Equal(t, []Phase{ReachedQuorum, RevealVote, VoteRevealFinished}, seen)
}

func TestPhase_String(t *testing.T) {
	require.Equal(t, "RevealVote", RevealVote.String())
	require.Equal(t, "Failed", Failed.String())
	require.Equal(t, "Unknown", Phase(42).String())
	require.True(t, RewardPayout.PastReveal())
	require.False(t, VoteRevealFinished.PastReveal())
}
