package oracle

import (
	"github.com/idena-network/idena-oracle/common/fixedpoint"
)

// RevealedVoteArray is the append-only list of weighted votes revealed for
// one proposal. Its capacity is fixed when the proposal is created.
type RevealedVoteArray struct {
	Proposal      string
	WeightedVotes []fixedpoint.Q32
	size          int
}

func NewRevealedVoteArray(proposal string, capacity uint16) *RevealedVoteArray {
	return &RevealedVoteArray{
		Proposal:      proposal,
		WeightedVotes: make([]fixedpoint.Q32, capacity),
	}
}

// RestoreRevealedVoteArray rebuilds an array from persisted entries.
func RestoreRevealedVoteArray(proposal string, capacity uint16, votes []fixedpoint.Q32) (*RevealedVoteArray, error) {
	if len(votes) > int(capacity) {
		return nil, ErrFullRevealList
	}
	a := NewRevealedVoteArray(proposal, capacity)
	a.size = copy(a.WeightedVotes, votes)
	return a, nil
}

func (a *RevealedVoteArray) Capacity() int {
	return len(a.WeightedVotes)
}

func (a *RevealedVoteArray) Len() int {
	return a.size
}

// LastIndex is the index of the newest entry, -1 when empty.
func (a *RevealedVoteArray) LastIndex() int {
	return a.size - 1
}

func (a *RevealedVoteArray) At(i int) fixedpoint.Q32 {
	return a.WeightedVotes[i]
}

// Votes returns a copy of the filled part.
func (a *RevealedVoteArray) Votes() []fixedpoint.Q32 {
	result := make([]fixedpoint.Q32, a.size)
	copy(result, a.WeightedVotes[:a.size])
	return result
}

// Reveal appends the weighted vote of a revealed ballot.
func (a *RevealedVoteArray) Reveal(vote *VoteAccount) error {
	if vote.Proposal != a.Proposal {
		return ErrProposalMismatch
	}
	if !vote.RevealedVote {
		return ErrVoteNotRevealed
	}
	if a.size >= len(a.WeightedVotes) {
		return ErrFullRevealList
	}
	weighted, err := vote.WeightedVote()
	if err != nil {
		return err
	}
	a.WeightedVotes[a.size] = weighted
	a.size++
	return nil
}

// SumSquaredDeviation returns Σ(entry − consensus)² in Q64.64.
func (a *RevealedVoteArray) SumSquaredDeviation(consensus fixedpoint.Q32) (fixedpoint.Q64, error) {
	var sum fixedpoint.Q64
	c := consensus.ToQ64()
	for _, entry := range a.WeightedVotes[:a.size] {
		d, err := entry.ToQ64().Sub(c)
		if err != nil {
			return fixedpoint.Q64{}, ErrOverflowU64
		}
		sq, err := d.Mul(d)
		if err != nil {
			return fixedpoint.Q64{}, ErrOverflowU64
		}
		if sum, err = sum.Add(sq); err != nil {
			return fixedpoint.Q64{}, ErrOverflowU64
		}
	}
	return sum, nil
}
