package oracle

import (
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	"github.com/idena-network/idena-oracle/common/math"
	gomath "math"
)

const (
	MaxNameLength        = 64
	MaxDescriptionLength = 256
)

type ProposalArgs struct {
	Name        string
	Description string
	Proposer    common.Address
	Stake       uint64
}

// Proposal is one oracle question and its resolution state.
type Proposal struct {
	Name        string
	Description string
	Proposer    common.Address
	Vault       common.Address
	TokenMint   common.Address

	ProposedStake          uint64
	RequiredVotes          uint64
	Votes                  uint64
	RevealedVotes          uint64
	RunningSumWeightedVote fixedpoint.Q32
	RunningWeight          uint64
	Consensus              fixedpoint.Q32

	EarnedRewards            uint64
	ScaleParameter           fixedpoint.Q32
	ScaleParameterCalculated bool
	Locked                   bool
	VoteFactorSum            fixedpoint.Q32
	DistributionSum          uint64
	TotalStaked              uint64
	ProtocolFeeRate          uint32
	AccruedProtocolFees      uint64
	ProtocolFeesCollected    uint64

	VoteStartAt     int64
	VoteEndAt       int64
	VoteEndRevealAt int64
}

// NewProposal validates args against cfg and opens the voting window at now.
// totalVoteWeight is the total voting power in whole units.
func NewProposal(cfg *Config, args ProposalArgs, now int64, totalVoteWeight uint64) (*Proposal, error) {
	if len(args.Name) == 0 {
		return nil, ErrEmptyName
	}
	if len(args.Name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	if len(args.Description) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	if args.Stake < cfg.MinimumProposalStake {
		return nil, ErrStakeTooLittle
	}
	if cfg.VotingLength <= 0 || cfg.RevealLength <= 0 ||
		cfg.VotingLength > gomath.MaxInt64-now ||
		cfg.RevealLength > gomath.MaxInt64-now-cfg.VotingLength {
		return nil, ErrInvalidPeriod
	}
	required, err := cfg.RequiredVotes(totalVoteWeight)
	if err != nil {
		return nil, err
	}
	return &Proposal{
		Name:            args.Name,
		Description:     args.Description,
		Proposer:        args.Proposer,
		Vault:           ComputeVaultAddr(args.Name),
		TokenMint:       cfg.TokenMint,
		ProposedStake:   args.Stake,
		RequiredVotes:   required,
		ProtocolFeeRate: cfg.ProtocolFeeRate,
		VoteStartAt:     now,
		VoteEndAt:       now + cfg.VotingLength,
		VoteEndRevealAt: now + cfg.VotingLength + cfg.RevealLength,
	}, nil
}

func (p *Proposal) Snapshot() PhaseSnapshot {
	return PhaseSnapshot{
		VoteEndAt:                p.VoteEndAt,
		VoteEndRevealAt:          p.VoteEndRevealAt,
		Votes:                    p.Votes,
		RequiredVotes:            p.RequiredVotes,
		RevealedVotes:            p.RevealedVotes,
		ScaleParameterCalculated: p.ScaleParameterCalculated,
		Locked:                   p.Locked,
	}
}

func (p *Proposal) Phase(now int64) Phase {
	return ComputePhase(now, p.Snapshot())
}

// CastVote adds a committed ballot of the given weight and stake.
func (p *Proposal) CastVote(now int64, weight uint32, staked uint64) error {
	if p.Phase(now) != Voting {
		return ErrVotingPeriodEnded
	}
	votes := p.Votes + uint64(weight)
	if votes < p.Votes {
		return ErrOverflowU64
	}
	total := p.TotalStaked + staked
	if total < p.TotalStaked {
		return ErrOverflowU64
	}
	fees := p.AccruedProtocolFees + p.ProtocolFee(staked)
	if fees < p.AccruedProtocolFees {
		return ErrOverflowU64
	}
	p.Votes, p.TotalStaked, p.AccruedProtocolFees = votes, total, fees
	return nil
}

// ProtocolFee is the part of a ballot stake kept by the protocol. The rate is
// fixed when the proposal is created.
func (p *Proposal) ProtocolFee(staked uint64) uint64 {
	if p.ProtocolFeeRate == 0 {
		return 0
	}
	return staked / uint64(p.ProtocolFeeRate)
}

// CancelVote removes a committed ballot. Its protocol fee stays accrued.
func (p *Proposal) CancelVote(now int64, weight uint32, staked uint64) error {
	if p.Phase(now) != Voting {
		return ErrVotingPeriodEnded
	}
	p.Votes = math.SubSat(p.Votes, uint64(weight))
	p.TotalStaked = math.SubSat(p.TotalStaked, staked)
	return nil
}

// AccumulateRevealed adds a revealed ballot to the consensus accumulators.
func (p *Proposal) AccumulateRevealed(v *VoteAccount) error {
	if v.Proposal != p.Name {
		return ErrProposalMismatch
	}
	if !v.RevealedVote {
		return ErrVoteNotRevealed
	}
	weighted, err := v.WeightedVote()
	if err != nil {
		return err
	}
	sum, err := p.RunningSumWeightedVote.Add(weighted)
	if err != nil {
		return ErrOverflowU64
	}
	weight := p.RunningWeight + uint64(v.VotePower)
	revealed := p.RevealedVotes + uint64(v.VotePower)
	if weight < p.RunningWeight || revealed < p.RevealedVotes {
		return ErrOverflowU64
	}
	p.RunningSumWeightedVote, p.RunningWeight, p.RevealedVotes = sum, weight, revealed
	return nil
}

// ConsensusValue is the weighted mean of the revealed votes.
func (p *Proposal) ConsensusValue() (fixedpoint.Q32, error) {
	return WeightedMean(p.RunningSumWeightedVote, p.RunningWeight)
}

// EstimatePrecision computes and stores the scale parameter.
func (p *Proposal) EstimatePrecision(rv *RevealedVoteArray) (fixedpoint.Q32, error) {
	if rv.Proposal != p.Name {
		return 0, ErrProposalMismatch
	}
	consensus, err := p.ConsensusValue()
	if err != nil {
		return 0, err
	}
	ssd, err := rv.SumSquaredDeviation(consensus)
	if err != nil {
		return 0, err
	}
	l, err := Precision(p.RunningWeight, ssd)
	if err != nil {
		return 0, err
	}
	p.ScaleParameter = l
	return l, nil
}

// FinalizeAfterReveal freezes consensus, proposer reward and precision.
func (p *Proposal) FinalizeAfterReveal(rv *RevealedVoteArray, now int64, decimals uint8) error {
	if p.Phase(now) != VoteRevealFinished {
		return ErrRevealPeriodNotActive
	}
	consensus, err := p.ConsensusValue()
	if err != nil {
		return err
	}
	reward, err := p.ProposerReward(decimals)
	if err != nil {
		return err
	}
	if _, err := p.EstimatePrecision(rv); err != nil {
		return err
	}
	p.Consensus = consensus
	p.EarnedRewards = reward
	p.ScaleParameterCalculated = true
	return nil
}

func (p *Proposal) ProposerReward(decimals uint8) (uint64, error) {
	return ProposerRewardAmount(p.ProposedStake, p.RevealedVotes, decimals)
}

// PayoutProposerRewards returns the proposer payout once and locks the
// proposal. A failed proposal only refunds the stake and stays unlocked, so
// its voters keep the refund path.
func (p *Proposal) PayoutProposerRewards(now int64) (Payout, error) {
	if p.Phase(now) == Failed {
		refund := Payout{Collateral: p.ProposedStake}
		p.ProposedStake = 0
		return refund, nil
	}
	if !p.ScaleParameterCalculated || !p.Phase(now).PastReveal() {
		return Payout{}, ErrNotPossibleToPayoutProposerReward
	}
	payout := Payout{
		Collateral: p.ProposedStake,
		Reward:     math.SubSat(p.EarnedRewards, p.ProposedStake),
	}
	p.EarnedRewards = 0
	p.ProposedStake = 0
	p.Locked = true
	return payout, nil
}

// PayoutAccruedProtocolFees returns the fees accrued since the last call.
func (p *Proposal) PayoutAccruedProtocolFees() uint64 {
	amount := math.SubSat(p.AccruedProtocolFees, p.ProtocolFeesCollected)
	p.ProtocolFeesCollected += amount
	return amount
}

func (p *Proposal) RecordVoterPayout(factor fixedpoint.Q32, amount uint64) error {
	sum, err := p.VoteFactorSum.Add(factor)
	if err != nil {
		return ErrOverflowU64
	}
	distributed := p.DistributionSum + amount
	if distributed < p.DistributionSum {
		return ErrOverflowU64
	}
	p.VoteFactorSum, p.DistributionSum = sum, distributed
	return nil
}
