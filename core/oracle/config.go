package oracle

import (
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	"github.com/idena-network/idena-oracle/common/math"
)

const (
	DefaultVotingLength   = int64(60 * 60 * 24)
	DefaultRevealLength   = int64(60 * 60 * 24)
	DefaultVoteStakeRate  = uint32(10)
	DefaultProtocolFee    = uint32(50)
	DefaultDecimals       = uint8(6)
	DefaultRevealCapacity = uint16(256)
	MaxRevealCapacity     = uint16(1024)
)

var DefaultRequiredVotesFraction = fixedpoint.Q16(fixedpoint.Q16One / 10)

// Config holds the protocol parameters of one token mint.
type Config struct {
	TokenMint         common.Address
	ProtocolAuthority common.Address

	VotingLength          int64
	RevealLength          int64
	RequiredVotesFraction fixedpoint.Q16
	DefaultRequiredVotes  uint64
	MinimumProposalStake  uint64
	VoteStakeRate         uint32
	ProtocolFeeRate       uint32
	Decimals              uint8
	RevealCapacity        uint16
}

func DefaultConfig(tokenMint, authority common.Address) *Config {
	return &Config{
		TokenMint:             tokenMint,
		ProtocolAuthority:     authority,
		VotingLength:          DefaultVotingLength,
		RevealLength:          DefaultRevealLength,
		RequiredVotesFraction: DefaultRequiredVotesFraction,
		DefaultRequiredVotes:  1,
		MinimumProposalStake:  10 * 1000000,
		VoteStakeRate:         DefaultVoteStakeRate,
		ProtocolFeeRate:       DefaultProtocolFee,
		Decimals:              DefaultDecimals,
		RevealCapacity:        DefaultRevealCapacity,
	}
}

func (c *Config) Validate() error {
	if c.VotingLength <= 0 || c.RevealLength <= 0 {
		return ErrInvalidPeriod
	}
	if c.RequiredVotesFraction == 0 || c.RequiredVotesFraction > fixedpoint.Q16One {
		return ErrInvalidQuorum
	}
	if c.VoteStakeRate <= 1 {
		return ErrInvalidStakeRate
	}
	if c.ProtocolFeeRate == 0 {
		return ErrInvalidFeeRate
	}
	if c.RevealCapacity == 0 || c.RevealCapacity > MaxRevealCapacity {
		return ErrInvalidRevealCapacity
	}
	return nil
}

// RequiredVotes is the quorum for a new proposal: the configured fraction of
// the total voting power, never below DefaultRequiredVotes.
func (c *Config) RequiredVotes(totalVotingPower uint64) (uint64, error) {
	byFraction, err := c.RequiredVotesFraction.MulUint64(totalVotingPower)
	if err != nil {
		return 0, ErrOverflowU64
	}
	return math.MaxUint64(byFraction, c.DefaultRequiredVotes), nil
}

type ConfigField byte

const (
	VotingLengthField ConfigField = iota + 1
	RevealLengthField
	RequiredVotesFractionField
	DefaultRequiredVotesField
	MinimumProposalStakeField
	VoteStakeRateField
	ProtocolFeeRateField
)

var configFieldNames = map[ConfigField]string{
	VotingLengthField:          "votingLength",
	RevealLengthField:          "revealLength",
	RequiredVotesFractionField: "requiredVotesFraction",
	DefaultRequiredVotesField:  "defaultRequiredVotes",
	MinimumProposalStakeField:  "minimumProposalStake",
	VoteStakeRateField:         "voteStakeRate",
	ProtocolFeeRateField:       "protocolFeeRate",
}

func (f ConfigField) String() string {
	if name, ok := configFieldNames[f]; ok {
		return name
	}
	return "unknown"
}

func ParseConfigField(s string) (ConfigField, error) {
	for f, name := range configFieldNames {
		if name == s {
			return f, nil
		}
	}
	return 0, ErrUnknownConfigField
}

// ConfigChange describes one applied update. Values are raw field values.
type ConfigChange struct {
	TokenMint common.Address
	Field     ConfigField
	Before    uint64
	After     uint64
}

func (c *Config) get(field ConfigField) (uint64, error) {
	switch field {
	case VotingLengthField:
		return uint64(c.VotingLength), nil
	case RevealLengthField:
		return uint64(c.RevealLength), nil
	case RequiredVotesFractionField:
		return uint64(c.RequiredVotesFraction), nil
	case DefaultRequiredVotesField:
		return c.DefaultRequiredVotes, nil
	case MinimumProposalStakeField:
		return c.MinimumProposalStake, nil
	case VoteStakeRateField:
		return uint64(c.VoteStakeRate), nil
	case ProtocolFeeRateField:
		return uint64(c.ProtocolFeeRate), nil
	}
	return 0, ErrUnknownConfigField
}

func (c *Config) set(field ConfigField, value uint64) error {
	switch field {
	case VotingLengthField:
		if value > 1<<62 {
			return ErrInvalidPeriod
		}
		c.VotingLength = int64(value)
	case RevealLengthField:
		if value > 1<<62 {
			return ErrInvalidPeriod
		}
		c.RevealLength = int64(value)
	case RequiredVotesFractionField:
		if value > uint64(fixedpoint.Q16One) {
			return ErrInvalidQuorum
		}
		c.RequiredVotesFraction = fixedpoint.Q16(value)
	case DefaultRequiredVotesField:
		c.DefaultRequiredVotes = value
	case MinimumProposalStakeField:
		c.MinimumProposalStake = value
	case VoteStakeRateField:
		if value > uint64(^uint32(0)) {
			return ErrOverflowU32
		}
		c.VoteStakeRate = uint32(value)
	case ProtocolFeeRateField:
		if value > uint64(^uint32(0)) {
			return ErrOverflowU32
		}
		c.ProtocolFeeRate = uint32(value)
	default:
		return ErrUnknownConfigField
	}
	return nil
}

// Update changes one field. Only the protocol authority may call it and the
// config is left untouched when the new value is invalid.
func (c *Config) Update(caller common.Address, field ConfigField, value uint64) (*ConfigChange, error) {
	if caller != c.ProtocolAuthority {
		return nil, ErrUnauthorized
	}
	before, err := c.get(field)
	if err != nil {
		return nil, err
	}
	updated := *c
	if err := updated.set(field, value); err != nil {
		return nil, err
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	*c = updated
	return &ConfigChange{
		TokenMint: c.TokenMint,
		Field:     field,
		Before:    before,
		After:     value,
	}, nil
}
