package engine

import (
	"context"
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/common/eventbus"
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	"github.com/idena-network/idena-oracle/core/ledger"
	"github.com/idena-network/idena-oracle/core/oracle"
	"github.com/idena-network/idena-oracle/core/state"
	"github.com/idena-network/idena-oracle/events"
	"github.com/idena-network/idena-oracle/log"
	"github.com/idena-network/idena-oracle/stats/collector"
	"github.com/pkg/errors"
	"sync"
)

// Engine executes oracle operations one at a time. Each operation reads the
// records it needs, mutates them, moves tokens and commits a new state
// version; on any error the state is rolled back and nothing is published.
type Engine struct {
	state  *state.StateDB
	ledger ledger.Ledger
	power  ledger.VotingPowerOracle
	clock  common.Clock
	bus    eventbus.Bus
	stats  collector.StatsCollector

	log          log.Logger
	failedLogger log.Logger
	lock         sync.Mutex
}

func NewEngine(stateDb *state.StateDB, l ledger.Ledger, power ledger.VotingPowerOracle, clock common.Clock,
	bus eventbus.Bus, stats collector.StatsCollector) *Engine {
	logger := log.New("component", "engine")
	return &Engine{
		state:        stateDb,
		ledger:       l,
		power:        power,
		clock:        clock,
		bus:          bus,
		stats:        stats,
		log:          logger,
		failedLogger: log.NewThrottlingLogger(logger),
	}
}

type tx struct {
	now    int64
	events []eventbus.Event
}

func (t *tx) publish(e eventbus.Event) {
	t.events = append(t.events, e)
}

func (e *Engine) execute(ctx context.Context, operation string, fn func(t *tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.lock.Lock()
	defer e.lock.Unlock()

	t := &tx{now: e.clock.Now()}
	if err := fn(t); err != nil {
		e.state.Reset()
		collector.AddFailedOperation(e.stats, operation)
		e.failedLogger.Debug(operation+" failed", "err", err)
		return err
	}
	_, root, version, err := e.state.Commit()
	if err != nil {
		e.state.Reset()
		e.log.Error("failed to commit state", "op", operation, "err", err)
		return err
	}
	e.log.Debug("operation applied", "op", operation, "version", version, "root", root.Hex())
	if e.bus != nil {
		for _, ev := range t.events {
			e.bus.Publish(ev)
		}
	}
	return nil
}

func (e *Engine) config(mint common.Address) (*oracle.Config, error) {
	cfg, err := e.state.GetConfig(mint)
	if errors.Cause(err) == state.ErrNotFound {
		return nil, ErrConfigNotFound
	}
	return cfg, err
}

func (e *Engine) proposal(name string) (*oracle.Proposal, error) {
	p, err := e.state.GetProposal(name)
	if errors.Cause(err) == state.ErrNotFound {
		return nil, errors.Wrapf(ErrProposalNotFound, "name %q", name)
	}
	return p, err
}

func (e *Engine) voteAccount(name string, voter common.Address) (*oracle.VoteAccount, error) {
	v, err := e.state.GetVoteAccount(name, voter)
	if errors.Cause(err) == state.ErrNotFound {
		return nil, ErrVoteNotFound
	}
	if err != nil {
		return nil, err
	}
	if v.Owner != voter {
		return nil, oracle.ErrNotVoteOwner
	}
	return v, nil
}

func (e *Engine) revealedVotes(name string) (*oracle.RevealedVoteArray, error) {
	rv, err := e.state.GetRevealedVotes(name)
	if errors.Cause(err) == state.ErrNotFound {
		return nil, errors.Wrapf(ErrProposalNotFound, "no reveal list for %q", name)
	}
	return rv, err
}

// proposalWithConfig loads a proposal and the config of its token mint.
func (e *Engine) proposalWithConfig(name string) (*oracle.Proposal, *oracle.Config, error) {
	p, err := e.proposal(name)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := e.config(p.TokenMint)
	if err != nil {
		return nil, nil, err
	}
	return p, cfg, nil
}

// InitConfig creates the protocol parameters of params.TokenMint with
// authority as the only account allowed to change them.
func (e *Engine) InitConfig(ctx context.Context, authority common.Address, params oracle.Config) (*oracle.Config, error) {
	cfg := params
	cfg.ProtocolAuthority = authority
	err := e.execute(ctx, "init-config", func(t *tx) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if _, err := e.state.GetConfig(cfg.TokenMint); err == nil {
			return ErrConfigExists
		}
		e.state.SetConfig(&cfg)
		t.publish(&events.ConfigUpdatedEvent{Change: &oracle.ConfigChange{TokenMint: cfg.TokenMint}})
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("config initialized", "mint", cfg.TokenMint.Hex(), "authority", authority.Hex())
	return &cfg, nil
}

type ConfigUpdate struct {
	Field oracle.ConfigField
	Value uint64
}

func (e *Engine) UpdateConfig(ctx context.Context, caller, mint common.Address, update ConfigUpdate) (*oracle.ConfigChange, error) {
	var change *oracle.ConfigChange
	err := e.execute(ctx, "update-config", func(t *tx) error {
		cfg, err := e.config(mint)
		if err != nil {
			return err
		}
		if change, err = cfg.Update(caller, update.Field, update.Value); err != nil {
			return err
		}
		e.state.SetConfig(cfg)
		t.publish(&events.ConfigUpdatedEvent{Change: change})
		collector.AddConfigUpdate(e.stats, mint)
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("config updated", "mint", mint.Hex(), "field", change.Field, "before", change.Before, "after", change.After)
	return change, nil
}

type ProposeArgs struct {
	TokenMint   common.Address
	Name        string
	Description string
	Stake       uint64
}

// Propose opens a new question and moves the proposer stake into its vault.
func (e *Engine) Propose(ctx context.Context, proposer common.Address, args ProposeArgs) (*oracle.Proposal, error) {
	var p *oracle.Proposal
	err := e.execute(ctx, "propose", func(t *tx) error {
		cfg, err := e.config(args.TokenMint)
		if err != nil {
			return err
		}
		if e.state.HasProposal(args.Name) {
			return ErrProposalExists
		}
		total, err := e.power.TotalVotingPower()
		if err != nil {
			return errors.Wrap(err, "failed to get total voting power")
		}
		p, err = oracle.NewProposal(cfg, oracle.ProposalArgs{
			Name:        args.Name,
			Description: args.Description,
			Proposer:    proposer,
			Stake:       args.Stake,
		}, t.now, fixedpoint.ScaleDown(total, cfg.Decimals))
		if err != nil {
			return err
		}
		e.state.SetProposal(p)
		e.state.SetRevealedVotes(oracle.NewRevealedVoteArray(p.Name, cfg.RevealCapacity))
		if err := e.ledger.Transfer(cfg.TokenMint, proposer, p.Vault, args.Stake); err != nil {
			return errors.Wrap(err, "failed to lock proposer stake")
		}
		t.publish(&events.ProposalCreatedEvent{
			Name:      p.Name,
			Proposer:  proposer,
			Stake:     args.Stake,
			VoteEndAt: p.VoteEndAt,
		})
		collector.AddProposal(e.stats, p.Name, args.Stake)
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("proposal created", "name", p.Name, "proposer", proposer.Hex(), "required", p.RequiredVotes,
		"voteEnd", p.VoteEndAt, "revealEnd", p.VoteEndRevealAt)
	return p, nil
}

// CommitVote creates the ballot of voter and locks its stake in the vault.
func (e *Engine) CommitVote(ctx context.Context, voter common.Address, name string, hash []byte) (*oracle.VoteAccount, error) {
	var v *oracle.VoteAccount
	err := e.execute(ctx, "commit", func(t *tx) error {
		p, cfg, err := e.proposalWithConfig(name)
		if err != nil {
			return err
		}
		if _, err := e.state.GetVoteAccount(name, voter); err == nil {
			return ErrVoteExists
		}
		power, err := e.power.VotingPower(voter)
		if err != nil {
			return errors.Wrap(err, "failed to get voting power")
		}
		var deposit uint64
		v, deposit, err = oracle.NewVoteAccount(cfg.VoteStakeRate, oracle.BallotArgs{
			Owner:       voter,
			Proposal:    name,
			StakeMint:   cfg.TokenMint,
			Hash:        hash,
			VotingPower: power,
		}, cfg.Decimals)
		if err != nil {
			return err
		}
		if err := p.CastVote(t.now, v.VotePower, v.Staked); err != nil {
			return err
		}
		e.state.SetProposal(p)
		e.state.SetVoteAccount(v)
		if err := e.ledger.Transfer(cfg.TokenMint, voter, p.Vault, deposit); err != nil {
			return errors.Wrap(err, "failed to lock vote stake")
		}
		t.publish(&events.VoteCommittedEvent{Proposal: name, Voter: voter, VotePower: v.VotePower, Staked: deposit})
		collector.AddOracleVotingCommit(e.stats, name, voter, v.VotePower)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (e *Engine) UpdateVote(ctx context.Context, voter common.Address, name string, hash []byte) error {
	return e.execute(ctx, "update", func(t *tx) error {
		p, err := e.proposal(name)
		if err != nil {
			return err
		}
		v, err := e.voteAccount(name, voter)
		if err != nil {
			return err
		}
		if err := v.Update(p, hash, t.now); err != nil {
			return err
		}
		e.state.SetVoteAccount(v)
		t.publish(&events.VoteUpdatedEvent{Proposal: name, Voter: voter})
		return nil
	})
}

// CancelVote withdraws the ballot of voter and returns the refunded stake.
func (e *Engine) CancelVote(ctx context.Context, voter common.Address, name string) (uint64, error) {
	var refund uint64
	err := e.execute(ctx, "cancel", func(t *tx) error {
		p, err := e.proposal(name)
		if err != nil {
			return err
		}
		v, err := e.voteAccount(name, voter)
		if err != nil {
			return err
		}
		if refund, err = v.Cancel(p, t.now); err != nil {
			return err
		}
		e.state.SetProposal(p)
		e.state.SetVoteAccount(v)
		if err := e.ledger.Transfer(v.StakeMint, p.Vault, voter, refund); err != nil {
			return errors.Wrap(err, "failed to refund vote stake")
		}
		t.publish(&events.VoteCancelledEvent{Proposal: name, Voter: voter, Refund: refund})
		collector.AddOracleVotingCancel(e.stats, name, voter, refund)
		return nil
	})
	return refund, err
}

// RevealVote opens the ballot of voter and adds it to the consensus.
func (e *Engine) RevealVote(ctx context.Context, voter common.Address, name string, vote fixedpoint.Q32, salt string) error {
	return e.execute(ctx, "reveal", func(t *tx) error {
		p, err := e.proposal(name)
		if err != nil {
			return err
		}
		v, err := e.voteAccount(name, voter)
		if err != nil {
			return err
		}
		if err := v.Reveal(p, salt, vote, t.now); err != nil {
			if err == oracle.ErrInvalidSalt {
				collector.AddOracleVotingInvalidReveal(e.stats, name, voter)
			}
			return err
		}
		rv, err := e.revealedVotes(name)
		if err != nil {
			return err
		}
		if err := rv.Reveal(v); err != nil {
			return err
		}
		if err := p.AccumulateRevealed(v); err != nil {
			return err
		}
		e.state.SetVoteAccount(v)
		e.state.SetRevealedVotes(rv)
		e.state.SetProposal(p)
		t.publish(&events.VoteRevealedEvent{Proposal: name, Voter: voter, Vote: vote, Index: rv.LastIndex()})
		collector.AddOracleVotingReveal(e.stats, name, voter, vote)
		return nil
	})
}

// FinalizeVoteResults freezes consensus and precision once the reveal window
// is over. Anyone may call it.
func (e *Engine) FinalizeVoteResults(ctx context.Context, name string) (*oracle.Proposal, error) {
	var p *oracle.Proposal
	err := e.execute(ctx, "finalize", func(t *tx) error {
		var cfg *oracle.Config
		var err error
		if p, cfg, err = e.proposalWithConfig(name); err != nil {
			return err
		}
		rv, err := e.revealedVotes(name)
		if err != nil {
			return err
		}
		if err := p.FinalizeAfterReveal(rv, t.now, cfg.Decimals); err != nil {
			return err
		}
		e.state.SetProposal(p)
		t.publish(&events.ProposalFinalizedEvent{
			Name:           name,
			Consensus:      p.Consensus,
			ScaleParameter: p.ScaleParameter,
			RevealedVotes:  p.RevealedVotes,
		})
		collector.AddOracleVotingFinalization(e.stats, name, p.Consensus, p.ScaleParameter)
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("proposal finalized", "name", name, "consensus", p.Consensus.String(),
		"scale", p.ScaleParameter.String(), "revealed", p.RevealedVotes)
	return p, nil
}

// CollectProposerReward pays the proposer once; later calls pay nothing.
func (e *Engine) CollectProposerReward(ctx context.Context, caller common.Address, name string) (uint64, error) {
	var amount uint64
	err := e.execute(ctx, "collect-proposer", func(t *tx) error {
		p, err := e.proposal(name)
		if err != nil {
			return err
		}
		if caller != p.Proposer {
			return oracle.ErrNotProposer
		}
		kind := events.ProposerReward
		if p.Phase(t.now) == oracle.Failed {
			kind = events.ProposerRefund
		}
		payout, err := p.PayoutProposerRewards(t.now)
		if err != nil {
			return err
		}
		e.state.SetProposal(p)
		if err := e.pay(p.TokenMint, p.Vault, caller, payout); err != nil {
			return err
		}
		amount = payout.Total()
		t.publish(&events.RewardPaidEvent{Proposal: name, Recipient: caller, Kind: kind, Amount: amount})
		collector.AddProposerReward(e.stats, name, caller, amount)
		return nil
	})
	return amount, err
}

// CollectVoteReward pays a scored ballot after finalization, or refunds its
// stake when the proposal failed.
func (e *Engine) CollectVoteReward(ctx context.Context, voter common.Address, name string) (uint64, error) {
	var amount uint64
	err := e.execute(ctx, "collect-vote", func(t *tx) error {
		p, cfg, err := e.proposalWithConfig(name)
		if err != nil {
			return err
		}
		v, err := e.voteAccount(name, voter)
		if err != nil {
			return err
		}
		kind := events.VoterReward
		if p.Phase(t.now) == oracle.Failed {
			kind = events.VoterRefund
		}
		payout, err := v.TokenReward(p, cfg.Decimals, t.now)
		if err != nil {
			return err
		}
		e.state.SetVoteAccount(v)
		e.state.SetProposal(p)
		if err := e.pay(v.StakeMint, p.Vault, voter, payout); err != nil {
			return err
		}
		amount = payout.Total()
		t.publish(&events.RewardPaidEvent{Proposal: name, Recipient: voter, Kind: kind, Amount: amount})
		if kind == events.VoterRefund {
			collector.AddVoterRefund(e.stats, name, voter, amount)
		} else {
			collector.AddVoterReward(e.stats, name, voter, amount)
		}
		return nil
	})
	return amount, err
}

// CollectProtocolFees pays the not yet collected protocol share of a vault.
func (e *Engine) CollectProtocolFees(ctx context.Context, caller common.Address, name string) (uint64, error) {
	var amount uint64
	err := e.execute(ctx, "collect-fees", func(t *tx) error {
		p, cfg, err := e.proposalWithConfig(name)
		if err != nil {
			return err
		}
		if caller != cfg.ProtocolAuthority {
			return oracle.ErrUnauthorized
		}
		amount = p.PayoutAccruedProtocolFees()
		e.state.SetProposal(p)
		if err := e.ledger.Transfer(cfg.TokenMint, p.Vault, caller, amount); err != nil {
			return errors.Wrap(err, "failed to pay protocol fee")
		}
		t.publish(&events.RewardPaidEvent{Proposal: name, Recipient: caller, Kind: events.ProtocolFee, Amount: amount})
		collector.AddProtocolFee(e.stats, name, amount)
		return nil
	})
	return amount, err
}

// Mint credits test tokens.
func (e *Engine) Mint(ctx context.Context, mint, to common.Address, amount uint64) error {
	return e.execute(ctx, "mint", func(t *tx) error {
		return e.ledger.Mint(mint, to, amount)
	})
}

// pay moves the collateral out of the vault and issues the reward.
func (e *Engine) pay(mint, vault, to common.Address, payout oracle.Payout) error {
	if err := e.ledger.Transfer(mint, vault, to, payout.Collateral); err != nil {
		return errors.Wrap(err, "failed to return collateral")
	}
	if payout.Reward == 0 {
		return nil
	}
	return errors.Wrap(e.ledger.Mint(mint, to, payout.Reward), "failed to issue reward")
}

func (e *Engine) Balance(mint, addr common.Address) uint64 {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.ledger.Balance(mint, addr)
}

func (e *Engine) Config(mint common.Address) (*oracle.Config, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.config(mint)
}

func (e *Engine) Proposal(name string) (*oracle.Proposal, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.proposal(name)
}

func (e *Engine) VoteAccount(name string, voter common.Address) (*oracle.VoteAccount, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.voteAccount(name, voter)
}

func (e *Engine) RevealedVotes(name string) (*oracle.RevealedVoteArray, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.revealedVotes(name)
}

// Phase evaluates the phase of a proposal at the current clock time.
func (e *Engine) Phase(name string) (oracle.Phase, error) {
	p, err := e.Proposal(name)
	if err != nil {
		return oracle.Failed, err
	}
	return p.Phase(e.clock.Now()), nil
}

func (e *Engine) Proposals() ([]*oracle.Proposal, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	var result []*oracle.Proposal
	err := e.state.IterateProposals(func(p *oracle.Proposal) bool {
		result = append(result, p)
		return false
	})
	return result, err
}

func (e *Engine) VoteAccounts(name string) ([]*oracle.VoteAccount, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	var result []*oracle.VoteAccount
	err := e.state.IterateVoteAccounts(name, func(v *oracle.VoteAccount) bool {
		result = append(result, v)
		return false
	})
	return result, err
}

func (e *Engine) Version() int64 {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.state.Version()
}
