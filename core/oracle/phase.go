package oracle

type Phase byte

const (
	Failed Phase = iota
	Voting
	ReachedQuorum
	RevealVote
	VoteRevealFinished
	RewardCalculation
	RewardPayout
)

var phaseNames = []string{"Failed", "Voting", "ReachedQuorum", "RevealVote", "VoteRevealFinished", "RewardCalculation", "RewardPayout"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Unknown"
}

// PastReveal reports whether results were already computed for the proposal.
func (p Phase) PastReveal() bool {
	return p == RewardCalculation || p == RewardPayout
}

// PhaseSnapshot is the part of a proposal the phase depends on.
type PhaseSnapshot struct {
	VoteEndAt                int64
	VoteEndRevealAt          int64
	Votes                    uint64
	RequiredVotes            uint64
	RevealedVotes            uint64
	ScaleParameterCalculated bool
	Locked                   bool
}

type phaseRule struct {
	phase Phase
	match func(now int64, s PhaseSnapshot) bool
}

// phaseRules are mutually exclusive and evaluated in order; the first match wins.
var phaseRules = []phaseRule{
	{RewardPayout, func(now int64, s PhaseSnapshot) bool {
		return s.Locked
	}},
	{RewardCalculation, func(now int64, s PhaseSnapshot) bool {
		return s.ScaleParameterCalculated
	}},
	{Voting, func(now int64, s PhaseSnapshot) bool {
		return now < s.VoteEndAt && s.Votes < s.RequiredVotes
	}},
	{ReachedQuorum, func(now int64, s PhaseSnapshot) bool {
		return now < s.VoteEndAt && s.Votes >= s.RequiredVotes
	}},
	{RevealVote, func(now int64, s PhaseSnapshot) bool {
		return now >= s.VoteEndAt && now < s.VoteEndRevealAt && s.Votes >= s.RequiredVotes
	}},
	{VoteRevealFinished, func(now int64, s PhaseSnapshot) bool {
		return now >= s.VoteEndRevealAt && s.Votes >= s.RequiredVotes && s.RevealedVotes > 0
	}},
}

// ComputePhase classifies a proposal at time now. Phase is never stored.
func ComputePhase(now int64, s PhaseSnapshot) Phase {
	for _, rule := range phaseRules {
		if rule.match(now, s) {
			return rule.phase
		}
	}
	return Failed
}
