package oracle

import (
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/common/fixedpoint"
)

// VoteAccount is one voter's ballot for one proposal.
type VoteAccount struct {
	Owner     common.Address
	Proposal  string
	StakeMint common.Address

	VoteHash      common.Hash
	Vote          fixedpoint.Q32
	VotePower     uint32
	Staked        uint64
	VoteFactor    fixedpoint.Q32
	EarnedRewards uint64
	RevealedVote  bool
	Locked        bool
}

type BallotArgs struct {
	Owner       common.Address
	Proposal    string
	StakeMint   common.Address
	Hash        []byte
	VotingPower uint64
}

// NewVoteAccount commits a ballot. votingPower is in token base units; the
// returned amount is the stake the voter has to deposit into the vault.
func NewVoteAccount(stakeRate uint32, args BallotArgs, decimals uint8) (*VoteAccount, uint64, error) {
	if stakeRate <= 1 {
		return nil, 0, ErrInvalidStakeRate
	}
	if len(args.Hash) != common.HashLength {
		return nil, 0, ErrInvalidHashLength
	}
	power := fixedpoint.ScaleDown(args.VotingPower, decimals)
	if power > uint64(^uint32(0)) {
		return nil, 0, ErrOverflowU32
	}
	if power == 0 {
		return nil, 0, ErrNoVotingPower
	}
	v := &VoteAccount{
		Owner:     args.Owner,
		Proposal:  args.Proposal,
		StakeMint: args.StakeMint,
		VotePower: uint32(power),
		Staked:    args.VotingPower / uint64(stakeRate),
	}
	v.VoteHash.SetBytes(args.Hash)
	return v, v.Staked, nil
}

// Update replaces the commitment while the proposal is still collecting votes.
func (v *VoteAccount) Update(p *Proposal, hash []byte, now int64) error {
	if v.Locked {
		return ErrVoteLocked
	}
	if len(hash) != common.HashLength {
		return ErrInvalidHashLength
	}
	if p.Phase(now) != Voting {
		return ErrVotingPeriodEnded
	}
	v.VoteHash.SetBytes(hash)
	return nil
}

// Reveal opens the ballot. A mismatching pair leaves the ballot untouched.
func (v *VoteAccount) Reveal(p *Proposal, salt string, vote fixedpoint.Q32, now int64) error {
	if v.Locked {
		return ErrVoteLocked
	}
	if v.RevealedVote {
		return ErrAlreadyRevealed
	}
	if p.Phase(now) != RevealVote {
		return ErrRevealPeriodNotActive
	}
	if VoteHash(vote, salt) != v.VoteHash {
		return ErrInvalidSalt
	}
	v.Vote = vote
	v.RevealedVote = true
	return nil
}

// Cancel withdraws the ballot from p and returns the stake to refund, less
// the protocol fee already accrued for it.
func (v *VoteAccount) Cancel(p *Proposal, now int64) (uint64, error) {
	if v.Locked {
		return 0, ErrVoteLocked
	}
	if v.RevealedVote {
		return 0, ErrAlreadyRevealed
	}
	if err := p.CancelVote(now, v.VotePower, v.Staked); err != nil {
		return 0, err
	}
	return v.cancel(p), nil
}

// cancel locks the ballot and returns its stake less the protocol fee.
func (v *VoteAccount) cancel(p *Proposal) uint64 {
	refund := v.Staked - p.ProtocolFee(v.Staked)
	v.Staked = 0
	v.Locked = true
	return refund
}

// CalculateVoteFactor scores the revealed vote against the frozen consensus.
func (v *VoteAccount) CalculateVoteFactor(p *Proposal) (fixedpoint.Q32, error) {
	if !v.RevealedVote {
		return 0, ErrVoteNotRevealed
	}
	if !p.ScaleParameterCalculated {
		return 0, ErrPrecisionNotCalculated
	}
	factor, err := VoteFactor(v.Vote, p.Consensus, p.ScaleParameter)
	if err != nil {
		return 0, err
	}
	v.VoteFactor = factor
	return factor, nil
}

// TokenReward computes what the voter is owed and locks the ballot. After
// finalization a revealed ballot gets its collateral back together with
// VotePower × VoteFactor tokens; on a failed proposal only the collateral is
// refunded. The protocol fee is kept in both cases.
func (v *VoteAccount) TokenReward(p *Proposal, decimals uint8, now int64) (Payout, error) {
	if v.Locked {
		return Payout{}, ErrVoteLocked
	}
	if v.Proposal != p.Name {
		return Payout{}, ErrProposalMismatch
	}
	switch p.Phase(now) {
	case Failed:
		return Payout{Collateral: v.cancel(p)}, nil
	case RewardCalculation, RewardPayout:
		if !v.RevealedVote {
			return Payout{}, ErrVoteNotRevealed
		}
		factor, err := v.CalculateVoteFactor(p)
		if err != nil {
			return Payout{}, err
		}
		amount, err := RewardAmount(v.VotePower, factor, decimals)
		if err != nil {
			return Payout{}, err
		}
		payout, err := newPayout(v.Staked-p.ProtocolFee(v.Staked), amount)
		if err != nil {
			return Payout{}, err
		}
		if err := p.RecordVoterPayout(factor, amount); err != nil {
			return Payout{}, err
		}
		v.EarnedRewards = amount
		v.cancel(p)
		return payout, nil
	}
	return Payout{}, ErrNotPossibleToCalculateVoteReward
}

// WeightedVote is VotePower × Vote, the entry appended on reveal.
func (v *VoteAccount) WeightedVote() (fixedpoint.Q32, error) {
	w, err := v.Vote.MulUint64(uint64(v.VotePower))
	if err != nil {
		return 0, ErrOverflowU64
	}
	return w, nil
}
