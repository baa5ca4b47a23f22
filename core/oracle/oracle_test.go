package oracle

import (
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	"github.com/idena-network/idena-oracle/tests"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

type ballot struct {
	account *VoteAccount
	vote    fixedpoint.Q32
	salt    string
}

type proposalTester struct {
	t        *testing.T
	cfg      *Config
	proposal *Proposal
	revealed *RevealedVoteArray
	now      int64
}

func newProposalTester(t *testing.T, requiredVotes uint64) *proposalTester {
	cfg := DefaultConfig(tests.GetRandAddr(), tests.GetRandAddr())
	cfg.RequiredVotesFraction = 1
	cfg.DefaultRequiredVotes = requiredVotes
	cfg.VotingLength = 100
	cfg.RevealLength = 100
	cfg.RevealCapacity = 16
	now := int64(1000)
	p, err := NewProposal(cfg, ProposalArgs{
		Name:     "eth-usd",
		Proposer: tests.GetRandAddr(),
		Stake:    cfg.MinimumProposalStake,
	}, now, 0)
	require.NoError(t, err)
	return &proposalTester{
		t:        t,
		cfg:      cfg,
		proposal: p,
		revealed: NewRevealedVoteArray(p.Name, cfg.RevealCapacity),
		now:      now,
	}
}

func (pt *proposalTester) votingPower(power uint32) uint64 {
	amount, err := fixedpoint.ScaleUp(uint64(power), pt.cfg.Decimals)
	require.NoError(pt.t, err)
	return amount
}

func (pt *proposalTester) tryCommit(power uint32, vote int64) (*ballot, error) {
	b := &ballot{vote: fixedpoint.MustQ32FromInt(vote), salt: tests.GetRandSalt()}
	hash := VoteHash(b.vote, b.salt)
	account, _, err := NewVoteAccount(pt.cfg.VoteStakeRate, BallotArgs{
		Owner:       tests.GetRandAddr(),
		Proposal:    pt.proposal.Name,
		StakeMint:   pt.cfg.TokenMint,
		Hash:        hash[:],
		VotingPower: pt.votingPower(power),
	}, pt.cfg.Decimals)
	require.NoError(pt.t, err)
	if err := pt.proposal.CastVote(pt.now, account.VotePower, account.Staked); err != nil {
		return nil, err
	}
	b.account = account
	return b, nil
}

func (pt *proposalTester) commit(power uint32, vote int64) *ballot {
	b, err := pt.tryCommit(power, vote)
	require.NoError(pt.t, err)
	return b
}

func (pt *proposalTester) reveal(b *ballot) {
	require.NoError(pt.t, b.account.Reveal(pt.proposal, b.salt, b.vote, pt.now))
	require.NoError(pt.t, pt.revealed.Reveal(b.account))
	require.NoError(pt.t, pt.proposal.AccumulateRevealed(b.account))
}

func (pt *proposalTester) toRevealWindow() {
	pt.now = pt.proposal.VoteEndAt
}

func (pt *proposalTester) toRevealEnd() {
	pt.now = pt.proposal.VoteEndRevealAt
}

func (pt *proposalTester) finalize() {
	require.NoError(pt.t, pt.proposal.FinalizeAfterReveal(pt.revealed, pt.now, pt.cfg.Decimals))
}

func TestOracle_successScenario(t *testing.T) {
	pt := newProposalTester(t, 7)
	require.Equal(t, uint64(7), pt.proposal.RequiredVotes)
	require.Equal(t, Voting, pt.proposal.Phase(pt.now))

	first := pt.commit(3, 300)
	require.Equal(t, Voting, pt.proposal.Phase(pt.now))
	second := pt.commit(4, 400)
	require.Equal(t, ReachedQuorum, pt.proposal.Phase(pt.now))
	require.Equal(t, uint64(7), pt.proposal.Votes)
	require.Equal(t, uint64(300000+400000), pt.proposal.TotalStaked)

	pt.toRevealWindow()
	require.Equal(t, RevealVote, pt.proposal.Phase(pt.now))
	pt.reveal(first)
	pt.reveal(second)

	require.Equal(t, fixedpoint.MustQ32FromInt(2500), pt.proposal.RunningSumWeightedVote)
	require.Equal(t, uint64(7), pt.proposal.RunningWeight)
	require.Equal(t, uint64(7), pt.proposal.RevealedVotes)
	require.Equal(t, []fixedpoint.Q32{fixedpoint.MustQ32FromInt(900), fixedpoint.MustQ32FromInt(1600)}, pt.revealed.Votes())

	consensus, err := pt.proposal.ConsensusValue()
	require.NoError(t, err)
	require.Equal(t, int64(1533916891428), consensus.Raw())
	require.Equal(t, "357.14", consensus.Decimal().StringFixed(2))

	ssd, err := pt.revealed.SumSquaredDeviation(consensus)
	require.NoError(t, err)
	require.Equal(t, "33930715170691252732238368", ssd.Raw().String())
	require.Equal(t, "1839387.76", ssd.Decimal().StringFixed(2))

	err = pt.proposal.FinalizeAfterReveal(pt.revealed, pt.now, pt.cfg.Decimals)
	require.Equal(t, ErrRevealPeriodNotActive, err)

	pt.toRevealEnd()
	require.Equal(t, VoteRevealFinished, pt.proposal.Phase(pt.now))
	pt.finalize()
	require.Equal(t, RewardCalculation, pt.proposal.Phase(pt.now))
	require.Equal(t, consensus, pt.proposal.Consensus)
	require.Equal(t, int64(16344), pt.proposal.ScaleParameter.Raw())
	require.Equal(t, pt.cfg.MinimumProposalStake+7000, pt.proposal.EarnedRewards)

	payout, err := first.account.TokenReward(pt.proposal, pt.cfg.Decimals, pt.now)
	require.NoError(t, err)
	require.Equal(t, Payout{Collateral: 300000 - 6000, Reward: 11}, payout)
	require.Equal(t, uint64(11), first.account.EarnedRewards)
	require.InDelta(t, 16142, first.account.VoteFactor.Raw(), 1)

	payout, err = second.account.TokenReward(pt.proposal, pt.cfg.Decimals, pt.now)
	require.NoError(t, err)
	require.Equal(t, Payout{Collateral: 400000 - 8000, Reward: 15}, payout)
	require.InDelta(t, 16230, second.account.VoteFactor.Raw(), 1)
	require.True(t, second.account.VoteFactor > first.account.VoteFactor)
	require.Equal(t, uint64(26), pt.proposal.DistributionSum)

	payout, err = pt.proposal.PayoutProposerRewards(pt.now)
	require.NoError(t, err)
	require.Equal(t, Payout{Collateral: pt.cfg.MinimumProposalStake, Reward: 7000}, payout)
	require.Equal(t, RewardPayout, pt.proposal.Phase(pt.now))
	require.Equal(t, uint64(14000), pt.proposal.PayoutAccruedProtocolFees())
}

func TestOracle_commitRevealSoundness(t *testing.T) {
	votes := []int64{0, 1, -1, 300, -12, 1 << 20}
	for _, vote := range votes {
		pt := newProposalTester(t, 5)
		b := pt.commit(5, vote)
		pt.toRevealWindow()

		err := b.account.Reveal(pt.proposal, b.salt+"x", b.vote, pt.now)
		require.Equal(t, ErrInvalidSalt, err)
		require.False(t, b.account.RevealedVote)

		err = b.account.Reveal(pt.proposal, b.salt, b.vote+1, pt.now)
		require.Equal(t, ErrInvalidSalt, err)
		require.False(t, b.account.RevealedVote)

		require.NoError(t, b.account.Reveal(pt.proposal, b.salt, b.vote, pt.now))
		require.True(t, b.account.RevealedVote)
		require.Equal(t, b.vote, b.account.Vote)

		require.Equal(t, ErrAlreadyRevealed, b.account.Reveal(pt.proposal, b.salt, b.vote, pt.now))
	}
}

func TestOracle_revealOutsideWindow(t *testing.T) {
	pt := newProposalTester(t, 5)
	b := pt.commit(5, 42)
	require.Equal(t, ErrRevealPeriodNotActive, b.account.Reveal(pt.proposal, b.salt, b.vote, pt.now))
	pt.toRevealEnd()
	require.Equal(t, ErrRevealPeriodNotActive, b.account.Reveal(pt.proposal, b.salt, b.vote, pt.now))
	require.False(t, b.account.RevealedVote)
}

func TestOracle_commitAtVotingEndIsRejected(t *testing.T) {
	pt := newProposalTester(t, 100)
	pt.commit(3, 1)
	pt.now = pt.proposal.VoteEndAt - 1
	pt.commit(3, 1)
	pt.now = pt.proposal.VoteEndAt
	_, err := pt.tryCommit(3, 1)
	require.Equal(t, ErrVotingPeriodEnded, err)
	require.Equal(t, uint64(6), pt.proposal.Votes)
	require.Equal(t, Failed, pt.proposal.Phase(pt.now))
}

func TestOracle_quorumExactlyAtVotingEnd(t *testing.T) {
	pt := newProposalTester(t, 10)
	pt.now = pt.proposal.VoteEndAt - 1
	pt.commit(10, 1)
	require.Equal(t, ReachedQuorum, pt.proposal.Phase(pt.now))
	pt.now++
	require.Equal(t, RevealVote, pt.proposal.Phase(pt.now))
}

func TestOracle_commitsStopAtQuorum(t *testing.T) {
	pt := newProposalTester(t, 10)
	b := pt.commit(10, 1)
	_, err := pt.tryCommit(1, 1)
	require.Equal(t, ErrVotingPeriodEnded, err)
	_, err = b.account.Cancel(pt.proposal, pt.now)
	require.Equal(t, ErrVotingPeriodEnded, err)
	require.False(t, b.account.Locked)
}

func TestOracle_weightConservation(t *testing.T) {
	pt := newProposalTester(t, 10000)
	var live []*ballot
	powers := []uint32{7, 1, 13, 2, 50, 9, 4}
	for i, power := range powers {
		live = append(live, pt.commit(power, int64(i)))
		if i%3 == 2 {
			staked := live[0].account.Staked
			refund, err := live[0].account.Cancel(pt.proposal, pt.now)
			require.NoError(t, err)
			require.Equal(t, pt.votingPower(live[0].account.VotePower)/uint64(pt.cfg.VoteStakeRate), staked)
			require.Equal(t, staked-staked/uint64(pt.cfg.ProtocolFeeRate), refund)
			require.True(t, live[0].account.Locked)
			_, err = live[0].account.Cancel(pt.proposal, pt.now)
			require.Equal(t, ErrVoteLocked, err)
			live = live[1:]
		}
		var sum, staked uint64
		for _, b := range live {
			sum += uint64(b.account.VotePower)
			staked += b.account.Staked
		}
		require.Equal(t, sum, pt.proposal.Votes)
		require.Equal(t, staked, pt.proposal.TotalStaked)
	}
}

func TestOracle_updateVote(t *testing.T) {
	pt := newProposalTester(t, 10)
	b := pt.commit(2, 10)
	newVote := fixedpoint.MustQ32FromInt(11)
	hash := VoteHash(newVote, b.salt)
	require.Equal(t, ErrInvalidHashLength, b.account.Update(pt.proposal, hash[:31], pt.now))
	require.NoError(t, b.account.Update(pt.proposal, hash[:], pt.now))
	require.Equal(t, common.Hash(hash), b.account.VoteHash)

	pt.commit(8, 10)
	require.Equal(t, ErrVotingPeriodEnded, b.account.Update(pt.proposal, hash[:], pt.now))

	pt.toRevealWindow()
	require.Equal(t, ErrInvalidSalt, b.account.Reveal(pt.proposal, b.salt, b.vote, pt.now))
	require.NoError(t, b.account.Reveal(pt.proposal, b.salt, newVote, pt.now))
}

func TestOracle_failedProposalRefunds(t *testing.T) {
	pt := newProposalTester(t, 100)
	b := pt.commit(3, 1)
	staked := b.account.Staked

	_, err := b.account.TokenReward(pt.proposal, pt.cfg.Decimals, pt.now)
	require.Equal(t, ErrNotPossibleToCalculateVoteReward, err)

	pt.toRevealWindow()
	require.Equal(t, Failed, pt.proposal.Phase(pt.now))
	refund, err := b.account.TokenReward(pt.proposal, pt.cfg.Decimals, pt.now)
	require.NoError(t, err)
	require.Equal(t, Payout{Collateral: staked - staked/uint64(pt.cfg.ProtocolFeeRate)}, refund)
	require.True(t, b.account.Locked)

	_, err = b.account.TokenReward(pt.proposal, pt.cfg.Decimals, pt.now)
	require.Equal(t, ErrVoteLocked, err)

	refund, err = pt.proposal.PayoutProposerRewards(pt.now)
	require.NoError(t, err)
	require.Equal(t, Payout{Collateral: pt.cfg.MinimumProposalStake}, refund)
	require.False(t, pt.proposal.Locked)
	require.Equal(t, Failed, pt.proposal.Phase(pt.now))

	refund, err = pt.proposal.PayoutProposerRewards(pt.now)
	require.NoError(t, err)
	require.Zero(t, refund.Total())
}

func TestOracle_nothingRevealedFails(t *testing.T) {
	pt := newProposalTester(t, 10)
	pt.commit(10, 1)
	pt.toRevealEnd()
	require.Equal(t, Failed, pt.proposal.Phase(pt.now))
	require.Equal(t, ErrRevealPeriodNotActive, pt.proposal.FinalizeAfterReveal(pt.revealed, pt.now, pt.cfg.Decimals))
	_, err := pt.proposal.ConsensusValue()
	require.Equal(t, ErrZeroWeight, err)
}

func TestOracle_idempotentPayout(t *testing.T) {
	pt := newProposalTester(t, 10)
	low := pt.commit(1, 4)
	high := pt.commit(1, 6)
	silent := pt.commit(8, 5)
	pt.toRevealWindow()
	pt.reveal(low)
	pt.reveal(high)

	_, err := pt.proposal.PayoutProposerRewards(pt.now)
	require.Equal(t, ErrNotPossibleToPayoutProposerReward, err)

	pt.toRevealEnd()
	_, err = pt.proposal.PayoutProposerRewards(pt.now)
	require.Equal(t, ErrNotPossibleToPayoutProposerReward, err)
	pt.finalize()

	// weight 2 over a deviation sum of 2
	require.Equal(t, fixedpoint.Q32One, pt.proposal.ScaleParameter)

	staked := low.account.Staked
	payout, err := low.account.TokenReward(pt.proposal, pt.cfg.Decimals, pt.now)
	require.NoError(t, err)
	require.Equal(t, staked-staked/uint64(pt.cfg.ProtocolFeeRate), payout.Collateral)
	require.InDelta(t, 1000000*math.Exp(-1), float64(payout.Reward), 1)
	_, err = low.account.TokenReward(pt.proposal, pt.cfg.Decimals, pt.now)
	require.Equal(t, ErrVoteLocked, err)

	_, err = silent.account.TokenReward(pt.proposal, pt.cfg.Decimals, pt.now)
	require.Equal(t, ErrVoteNotRevealed, err)

	first, err := pt.proposal.PayoutProposerRewards(pt.now)
	require.NoError(t, err)
	require.Equal(t, Payout{Collateral: pt.cfg.MinimumProposalStake, Reward: 2000}, first)
	second, err := pt.proposal.PayoutProposerRewards(pt.now)
	require.NoError(t, err)
	require.Zero(t, second.Total())
	require.Zero(t, pt.proposal.ProposedStake)
}

func TestOracle_protocolFees(t *testing.T) {
	pt := newProposalTester(t, 1000)
	pt.commit(50, 1)
	require.Equal(t, uint64(5000000), pt.proposal.TotalStaked)
	require.Equal(t, uint64(100000), pt.proposal.PayoutAccruedProtocolFees())
	require.Zero(t, pt.proposal.PayoutAccruedProtocolFees())

	b := pt.commit(25, 1)
	_, err := b.account.Cancel(pt.proposal, pt.now)
	require.NoError(t, err)
	require.Equal(t, uint64(5000000), pt.proposal.TotalStaked)
	require.Equal(t, uint64(50000), pt.proposal.PayoutAccruedProtocolFees())
	require.Equal(t, uint64(150000), pt.proposal.ProtocolFeesCollected)

	// the rate is fixed at creation
	pt.cfg.ProtocolFeeRate = 10
	pt.commit(10, 1)
	require.Equal(t, uint64(20000), pt.proposal.PayoutAccruedProtocolFees())
}

func TestNewProposal_validation(t *testing.T) {
	cfg := DefaultConfig(tests.GetRandAddr(), tests.GetRandAddr())
	args := ProposalArgs{Name: "q", Proposer: tests.GetRandAddr(), Stake: cfg.MinimumProposalStake}

	p, err := NewProposal(cfg, args, 10, 0)
	require.NoError(t, err)
	require.True(t, p.VoteStartAt < p.VoteEndAt && p.VoteEndAt < p.VoteEndRevealAt)
	require.Equal(t, ComputeVaultAddr("q"), p.Vault)
	require.Equal(t, cfg.DefaultRequiredVotes, p.RequiredVotes)

	low := args
	low.Stake--
	_, err = NewProposal(cfg, low, 10, 0)
	require.Equal(t, ErrStakeTooLittle, err)

	long := args
	long.Name = string(make([]byte, MaxNameLength+1))
	_, err = NewProposal(cfg, long, 10, 0)
	require.Equal(t, ErrNameTooLong, err)

	empty := args
	empty.Name = ""
	_, err = NewProposal(cfg, empty, 10, 0)
	require.Equal(t, ErrEmptyName, err)

	desc := args
	desc.Description = string(make([]byte, MaxDescriptionLength+1))
	_, err = NewProposal(cfg, desc, 10, 0)
	require.Equal(t, ErrDescriptionTooLong, err)

	_, err = NewProposal(cfg, args, math.MaxInt64-100, 0)
	require.Equal(t, ErrInvalidPeriod, err)
}

func TestNewVoteAccount_validation(t *testing.T) {
	hash := VoteHash(fixedpoint.Q32One, "salt")
	args := BallotArgs{Owner: tests.GetRandAddr(), Proposal: "q", Hash: hash[:], VotingPower: 25000000}

	v, deposit, err := NewVoteAccount(10, args, 6)
	require.NoError(t, err)
	require.Equal(t, uint32(25), v.VotePower)
	require.Equal(t, uint64(2500000), deposit)
	require.False(t, v.RevealedVote)
	require.Zero(t, v.Vote)

	_, _, err = NewVoteAccount(1, args, 6)
	require.Equal(t, ErrInvalidStakeRate, err)

	short := args
	short.Hash = hash[:16]
	_, _, err = NewVoteAccount(10, short, 6)
	require.Equal(t, ErrInvalidHashLength, err)

	weak := args
	weak.VotingPower = 999999
	_, _, err = NewVoteAccount(10, weak, 6)
	require.Equal(t, ErrNoVotingPower, err)

	strong := args
	strong.VotingPower = 1 << 32
	_, _, err = NewVoteAccount(10, strong, 0)
	require.Equal(t, ErrOverflowU32, err)
}
