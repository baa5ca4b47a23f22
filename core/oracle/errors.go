package oracle

import "github.com/pkg/errors"

// validation
var (
	ErrStakeTooLittle        = errors.New("stake is less than minimal proposal stake")
	ErrInvalidPeriod         = errors.New("voting and reveal periods should be positive")
	ErrEmptyName             = errors.New("proposal name is empty")
	ErrNameTooLong           = errors.New("proposal name is too long")
	ErrDescriptionTooLong    = errors.New("proposal description is too long")
	ErrInvalidHashLength     = errors.New("vote hash should be 32 bytes")
	ErrInvalidStakeRate      = errors.New("vote stake rate should be greater than 1")
	ErrInvalidFeeRate        = errors.New("protocol fee rate should be positive")
	ErrInvalidQuorum         = errors.New("required votes fraction should be in (0, 1]")
	ErrInvalidRevealCapacity = errors.New("reveal capacity is out of range")
	ErrNoVotingPower         = errors.New("voter has no voting power")
	ErrUnknownConfigField    = errors.New("unknown config field")
	ErrProposalMismatch      = errors.New("record belongs to another proposal")
)

// phase
var (
	ErrVotingPeriodEnded                 = errors.New("voting period ended")
	ErrRevealPeriodNotActive             = errors.New("reveal period is not active")
	ErrNotPossibleToPayoutProposerReward = errors.New("not possible to payout proposer reward")
	ErrNotPossibleToCalculateVoteReward  = errors.New("not possible to calculate vote reward")
	ErrPrecisionNotCalculated            = errors.New("scale parameter is not calculated")
)

// authentication
var (
	ErrInvalidSalt  = errors.New("vote and salt do not match the commitment")
	ErrUnauthorized = errors.New("sender is not authorized")
	ErrNotVoteOwner = errors.New("sender is not the vote owner")
	ErrNotProposer  = errors.New("sender is not the proposer")
)

// ballot state
var (
	ErrVoteNotRevealed = errors.New("vote is not revealed")
	ErrAlreadyRevealed = errors.New("vote is already revealed")
	ErrVoteLocked      = errors.New("vote account is locked")
	ErrZeroWeight      = errors.New("no revealed weight")
)

// capacity / overflow
var (
	ErrFullRevealList = errors.New("revealed vote list is full")
	ErrOverflowU32    = errors.New("u32 overflow")
	ErrOverflowU64    = errors.New("u64 overflow")
)
