package events

import (
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/common/eventbus"
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	"github.com/idena-network/idena-oracle/core/oracle"
)

const (
	ConfigUpdatedEventID     = eventbus.EventID("config-updated")
	ProposalCreatedEventID   = eventbus.EventID("proposal-created")
	VoteCommittedEventID     = eventbus.EventID("vote-committed")
	VoteUpdatedEventID       = eventbus.EventID("vote-updated")
	VoteCancelledEventID     = eventbus.EventID("vote-cancelled")
	VoteRevealedEventID      = eventbus.EventID("vote-revealed")
	ProposalFinalizedEventID = eventbus.EventID("proposal-finalized")
	RewardPaidEventID        = eventbus.EventID("reward-paid")
)

// ConfigUpdatedEvent carries the before/after values of one config field.
type ConfigUpdatedEvent struct {
	Change *oracle.ConfigChange
}

func (e *ConfigUpdatedEvent) EventID() eventbus.EventID {
	return ConfigUpdatedEventID
}

type ProposalCreatedEvent struct {
	Name      string
	Proposer  common.Address
	Stake     uint64
	VoteEndAt int64
}

func (e *ProposalCreatedEvent) EventID() eventbus.EventID {
	return ProposalCreatedEventID
}

type VoteCommittedEvent struct {
	Proposal  string
	Voter     common.Address
	VotePower uint32
	Staked    uint64
}

func (e *VoteCommittedEvent) EventID() eventbus.EventID {
	return VoteCommittedEventID
}

type VoteUpdatedEvent struct {
	Proposal string
	Voter    common.Address
}

func (e *VoteUpdatedEvent) EventID() eventbus.EventID {
	return VoteUpdatedEventID
}

type VoteCancelledEvent struct {
	Proposal string
	Voter    common.Address
	Refund   uint64
}

func (e *VoteCancelledEvent) EventID() eventbus.EventID {
	return VoteCancelledEventID
}

type VoteRevealedEvent struct {
	Proposal string
	Voter    common.Address
	Vote     fixedpoint.Q32
	Index    int
}

func (e *VoteRevealedEvent) EventID() eventbus.EventID {
	return VoteRevealedEventID
}

type ProposalFinalizedEvent struct {
	Name           string
	Consensus      fixedpoint.Q32
	ScaleParameter fixedpoint.Q32
	RevealedVotes  uint64
}

func (e *ProposalFinalizedEvent) EventID() eventbus.EventID {
	return ProposalFinalizedEventID
}

type RewardKind byte

const (
	ProposerReward RewardKind = iota
	VoterReward
	VoterRefund
	ProtocolFee
	ProposerRefund
)

func (k RewardKind) String() string {
	switch k {
	case ProposerReward:
		return "proposer"
	case VoterReward:
		return "voter"
	case VoterRefund:
		return "refund"
	case ProtocolFee:
		return "fee"
	case ProposerRefund:
		return "proposer-refund"
	}
	return "unknown"
}

type RewardPaidEvent struct {
	Proposal  string
	Recipient common.Address
	Kind      RewardKind
	Amount    uint64
}

func (e *RewardPaidEvent) EventID() eventbus.EventID {
	return RewardPaidEventID
}
