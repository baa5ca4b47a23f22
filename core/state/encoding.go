package state

import (
	"encoding/binary"
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	"github.com/idena-network/idena-oracle/core/oracle"
	"github.com/pkg/errors"
)

// Record sizes in bytes. Every record is stored with its full width.
const (
	ConfigSize              = 128
	ProposalSize            = 528
	VoteAccountSize         = 128
	RevealedVotesHeaderSize = 16
)

var ErrInvalidLayout = errors.New("invalid record layout")

type writer struct {
	buf []byte
	pos int
}

func newWriter(size int) *writer {
	return &writer{buf: make([]byte, size)}
}

func (w *writer) uint8(v uint8) {
	w.buf[w.pos] = v
	w.pos++
}

func (w *writer) uint16(v uint16) {
	binary.BigEndian.PutUint16(w.buf[w.pos:], v)
	w.pos += 2
}

func (w *writer) uint32(v uint32) {
	binary.BigEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
}

func (w *writer) uint64(v uint64) {
	binary.BigEndian.PutUint64(w.buf[w.pos:], v)
	w.pos += 8
}

func (w *writer) int64(v int64) {
	w.uint64(uint64(v))
}

func (w *writer) bytes(b []byte) {
	w.pos += copy(w.buf[w.pos:], b)
}

// string writes a length-prefixed string padded to max bytes.
func (w *writer) string(s string, max int) {
	if max > 0xFF {
		w.uint16(uint16(len(s)))
	} else {
		w.uint8(uint8(len(s)))
	}
	copy(w.buf[w.pos:w.pos+max], s)
	w.pos += max
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) uint8() uint8 {
	v := r.buf[r.pos]
	r.pos++
	return v
}

func (r *reader) uint16() uint16 {
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

func (r *reader) uint32() uint32 {
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) uint64() uint64 {
	v := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v
}

func (r *reader) int64() int64 {
	return int64(r.uint64())
}

func (r *reader) address() common.Address {
	var a common.Address
	r.pos += copy(a[:], r.buf[r.pos:])
	return a
}

func (r *reader) hash() common.Hash {
	var h common.Hash
	r.pos += copy(h[:], r.buf[r.pos:])
	return h
}

func (r *reader) string(max int) (string, error) {
	var l int
	if max > 0xFF {
		l = int(r.uint16())
	} else {
		l = int(r.uint8())
	}
	if l > max {
		return "", ErrInvalidLayout
	}
	s := string(r.buf[r.pos : r.pos+l])
	r.pos += max
	return s, nil
}

const (
	flagCalculated = 1 << iota
	flagLocked
	flagRevealed
)

func flags(values ...bool) uint8 {
	var result uint8
	for i, v := range values {
		if v {
			result |= 1 << uint(i)
		}
	}
	return result
}

func EncodeConfig(c *oracle.Config) []byte {
	w := newWriter(ConfigSize)
	w.bytes(c.TokenMint[:])
	w.bytes(c.ProtocolAuthority[:])
	w.int64(c.VotingLength)
	w.int64(c.RevealLength)
	w.uint32(uint32(c.RequiredVotesFraction))
	w.uint64(c.DefaultRequiredVotes)
	w.uint64(c.MinimumProposalStake)
	w.uint32(c.VoteStakeRate)
	w.uint32(c.ProtocolFeeRate)
	w.uint8(c.Decimals)
	w.uint16(c.RevealCapacity)
	return w.buf
}

func DecodeConfig(data []byte) (*oracle.Config, error) {
	if len(data) != ConfigSize {
		return nil, ErrInvalidLayout
	}
	r := &reader{buf: data}
	return &oracle.Config{
		TokenMint:             r.address(),
		ProtocolAuthority:     r.address(),
		VotingLength:          r.int64(),
		RevealLength:          r.int64(),
		RequiredVotesFraction: fixedpoint.Q16(r.uint32()),
		DefaultRequiredVotes:  r.uint64(),
		MinimumProposalStake:  r.uint64(),
		VoteStakeRate:         r.uint32(),
		ProtocolFeeRate:       r.uint32(),
		Decimals:              r.uint8(),
		RevealCapacity:        r.uint16(),
	}, nil
}

func EncodeProposal(p *oracle.Proposal) []byte {
	w := newWriter(ProposalSize)
	w.string(p.Name, oracle.MaxNameLength)
	w.string(p.Description, oracle.MaxDescriptionLength)
	w.bytes(p.Proposer[:])
	w.bytes(p.Vault[:])
	w.bytes(p.TokenMint[:])
	w.uint64(p.ProposedStake)
	w.uint64(p.RequiredVotes)
	w.uint64(p.Votes)
	w.uint64(p.RevealedVotes)
	w.int64(p.RunningSumWeightedVote.Raw())
	w.uint64(p.RunningWeight)
	w.int64(p.Consensus.Raw())
	w.uint64(p.EarnedRewards)
	w.int64(p.ScaleParameter.Raw())
	w.int64(p.VoteFactorSum.Raw())
	w.uint64(p.DistributionSum)
	w.uint64(p.TotalStaked)
	w.uint32(p.ProtocolFeeRate)
	w.uint64(p.AccruedProtocolFees)
	w.uint64(p.ProtocolFeesCollected)
	w.int64(p.VoteStartAt)
	w.int64(p.VoteEndAt)
	w.int64(p.VoteEndRevealAt)
	w.uint8(flags(p.ScaleParameterCalculated, p.Locked))
	return w.buf
}

func DecodeProposal(data []byte) (*oracle.Proposal, error) {
	if len(data) != ProposalSize {
		return nil, ErrInvalidLayout
	}
	r := &reader{buf: data}
	name, err := r.string(oracle.MaxNameLength)
	if err != nil {
		return nil, err
	}
	description, err := r.string(oracle.MaxDescriptionLength)
	if err != nil {
		return nil, err
	}
	p := &oracle.Proposal{
		Name:                   name,
		Description:            description,
		Proposer:               r.address(),
		Vault:                  r.address(),
		TokenMint:              r.address(),
		ProposedStake:          r.uint64(),
		RequiredVotes:          r.uint64(),
		Votes:                  r.uint64(),
		RevealedVotes:          r.uint64(),
		RunningSumWeightedVote: fixedpoint.Q32(r.int64()),
		RunningWeight:          r.uint64(),
		Consensus:              fixedpoint.Q32(r.int64()),
		EarnedRewards:          r.uint64(),
		ScaleParameter:         fixedpoint.Q32(r.int64()),
		VoteFactorSum:          fixedpoint.Q32(r.int64()),
		DistributionSum:        r.uint64(),
		TotalStaked:            r.uint64(),
		ProtocolFeeRate:        r.uint32(),
		AccruedProtocolFees:    r.uint64(),
		ProtocolFeesCollected:  r.uint64(),
		VoteStartAt:            r.int64(),
		VoteEndAt:              r.int64(),
		VoteEndRevealAt:        r.int64(),
	}
	f := r.uint8()
	p.ScaleParameterCalculated = f&flagCalculated != 0
	p.Locked = f&flagLocked != 0
	return p, nil
}

// EncodeVoteAccount omits the proposal name, which is part of the key.
func EncodeVoteAccount(v *oracle.VoteAccount) []byte {
	w := newWriter(VoteAccountSize)
	w.bytes(v.Owner[:])
	w.bytes(v.StakeMint[:])
	w.bytes(v.VoteHash[:])
	w.int64(v.Vote.Raw())
	w.uint32(v.VotePower)
	w.uint64(v.Staked)
	w.int64(v.VoteFactor.Raw())
	w.uint64(v.EarnedRewards)
	w.uint8(flags(false, v.Locked, v.RevealedVote))
	return w.buf
}

func DecodeVoteAccount(proposal string, data []byte) (*oracle.VoteAccount, error) {
	if len(data) != VoteAccountSize {
		return nil, ErrInvalidLayout
	}
	r := &reader{buf: data}
	v := &oracle.VoteAccount{
		Owner:         r.address(),
		Proposal:      proposal,
		StakeMint:     r.address(),
		VoteHash:      r.hash(),
		Vote:          fixedpoint.Q32(r.int64()),
		VotePower:     r.uint32(),
		Staked:        r.uint64(),
		VoteFactor:    fixedpoint.Q32(r.int64()),
		EarnedRewards: r.uint64(),
	}
	f := r.uint8()
	v.Locked = f&flagLocked != 0
	v.RevealedVote = f&flagRevealed != 0
	return v, nil
}

// EncodeRevealedVotes writes a 16 byte header (capacity, size) followed by
// all N slots, filled or not.
func EncodeRevealedVotes(a *oracle.RevealedVoteArray) []byte {
	w := newWriter(RevealedVotesHeaderSize + 8*a.Capacity())
	w.uint16(uint16(a.Capacity()))
	w.uint16(uint16(a.Len()))
	w.pos = RevealedVotesHeaderSize
	for _, v := range a.WeightedVotes {
		w.int64(v.Raw())
	}
	return w.buf
}

func DecodeRevealedVotes(proposal string, data []byte) (*oracle.RevealedVoteArray, error) {
	if len(data) < RevealedVotesHeaderSize {
		return nil, ErrInvalidLayout
	}
	r := &reader{buf: data}
	capacity := r.uint16()
	size := int(r.uint16())
	if len(data) != RevealedVotesHeaderSize+8*int(capacity) || size > int(capacity) {
		return nil, ErrInvalidLayout
	}
	r.pos = RevealedVotesHeaderSize
	votes := make([]fixedpoint.Q32, size)
	for i := range votes {
		votes[i] = fixedpoint.Q32(r.int64())
	}
	return oracle.RestoreRevealedVoteArray(proposal, capacity, votes)
}
