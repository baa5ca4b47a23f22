package state

import (
	"github.com/idena-network/idena-oracle/common"
)

var (
	// state tree prefix inside the database
	stateDbPrefix = []byte{0x1}

	configPrefix        = []byte{0x1}
	proposalPrefix      = []byte{0x2}
	voteAccountPrefix   = []byte{0x3}
	revealedVotesPrefix = []byte{0x4}
	balancePrefix       = []byte{0x5}
)

var StateDbKeys = &stateDbKeys{}

type stateDbKeys struct {
}

func (s *stateDbKeys) ConfigKey(mint common.Address) []byte {
	return append(append([]byte{}, configPrefix...), mint[:]...)
}

func (s *stateDbKeys) ProposalKey(name string) []byte {
	return append(append([]byte{}, proposalPrefix...), name...)
}

// VoteAccountKey orders ballots by proposal; the name is length-prefixed so
// that one proposal's range never covers another's.
func (s *stateDbKeys) VoteAccountKey(name string, owner common.Address) []byte {
	return append(s.VoteAccountPrefix(name), owner[:]...)
}

func (s *stateDbKeys) VoteAccountPrefix(name string) []byte {
	key := append(append([]byte{}, voteAccountPrefix...), byte(len(name)))
	return append(key, name...)
}

func (s *stateDbKeys) RevealedVotesKey(name string) []byte {
	return append(append([]byte{}, revealedVotesPrefix...), name...)
}

func (s *stateDbKeys) BalanceKey(mint, addr common.Address) []byte {
	return append(append(append([]byte{}, balancePrefix...), mint[:]...), addr[:]...)
}

// prefixEnd returns the smallest key greater than every key starting with prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
