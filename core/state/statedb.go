package state

import (
	"github.com/deckarep/golang-set"
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/core/oracle"
	"github.com/idena-network/idena-oracle/log"
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
	"sort"
	"sync"
)

const MaxSavedStatesCount = 100

var ErrNotFound = errors.New("record not found")

type StateTreeDiff struct {
	Key     []byte
	Value   []byte
	Deleted bool
}

// StateDB keeps oracle records in a versioned tree. Writes are buffered until
// Commit; Reset drops them together with any uncommitted tree changes.
type StateDB struct {
	db   dbm.DB
	tree Tree

	cache map[string][]byte
	dirty mapset.Set

	log  log.Logger
	lock sync.Mutex
}

func NewLazy(db dbm.DB) *StateDB {
	pdb := dbm.NewPrefixDB(db, stateDbPrefix)
	return &StateDB{
		db:    pdb,
		tree:  NewMutableTree(pdb),
		cache: make(map[string][]byte),
		dirty: mapset.NewThreadUnsafeSet(),
		log:   log.New("component", "state"),
	}
}

// Load opens the given version, or the latest one when version is 0.
func (s *StateDB) Load(version int64) error {
	s.Clear()
	if version == 0 {
		_, err := s.tree.Load()
		return err
	}
	_, err := s.tree.LoadVersion(version)
	return err
}

func (s *StateDB) Version() int64 {
	return s.tree.Version()
}

func (s *StateDB) Root() common.Hash {
	return s.tree.Hash()
}

func (s *StateDB) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.cache = make(map[string][]byte)
	s.dirty.Clear()
}

func (s *StateDB) get(key []byte) []byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	if data, ok := s.cache[string(key)]; ok {
		return data
	}
	_, data := s.tree.Get(key)
	return data
}

func (s *StateDB) set(key, value []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.cache[string(key)] = value
	s.dirty.Add(string(key))
}

func (s *StateDB) remove(key []byte) {
	s.set(key, nil)
}

func (s *StateDB) GetConfig(mint common.Address) (*oracle.Config, error) {
	data := s.get(StateDbKeys.ConfigKey(mint))
	if data == nil {
		return nil, ErrNotFound
	}
	return DecodeConfig(data)
}

func (s *StateDB) SetConfig(c *oracle.Config) {
	s.set(StateDbKeys.ConfigKey(c.TokenMint), EncodeConfig(c))
}

func (s *StateDB) HasProposal(name string) bool {
	return s.get(StateDbKeys.ProposalKey(name)) != nil
}

func (s *StateDB) GetProposal(name string) (*oracle.Proposal, error) {
	data := s.get(StateDbKeys.ProposalKey(name))
	if data == nil {
		return nil, ErrNotFound
	}
	return DecodeProposal(data)
}

func (s *StateDB) SetProposal(p *oracle.Proposal) {
	s.set(StateDbKeys.ProposalKey(p.Name), EncodeProposal(p))
}

func (s *StateDB) GetVoteAccount(name string, owner common.Address) (*oracle.VoteAccount, error) {
	data := s.get(StateDbKeys.VoteAccountKey(name, owner))
	if data == nil {
		return nil, ErrNotFound
	}
	return DecodeVoteAccount(name, data)
}

func (s *StateDB) SetVoteAccount(v *oracle.VoteAccount) {
	s.set(StateDbKeys.VoteAccountKey(v.Proposal, v.Owner), EncodeVoteAccount(v))
}

func (s *StateDB) GetRevealedVotes(name string) (*oracle.RevealedVoteArray, error) {
	data := s.get(StateDbKeys.RevealedVotesKey(name))
	if data == nil {
		return nil, ErrNotFound
	}
	return DecodeRevealedVotes(name, data)
}

func (s *StateDB) SetRevealedVotes(a *oracle.RevealedVoteArray) {
	s.set(StateDbKeys.RevealedVotesKey(a.Proposal), EncodeRevealedVotes(a))
}

func (s *StateDB) GetBalance(mint, addr common.Address) uint64 {
	data := s.get(StateDbKeys.BalanceKey(mint, addr))
	if len(data) != 8 {
		return 0
	}
	r := &reader{buf: data}
	return r.uint64()
}

func (s *StateDB) SetBalance(mint, addr common.Address, amount uint64) {
	key := StateDbKeys.BalanceKey(mint, addr)
	if amount == 0 {
		s.remove(key)
		return
	}
	w := newWriter(8)
	w.uint64(amount)
	s.set(key, w.buf)
}

// IterateProposals walks committed proposals in name order.
func (s *StateDB) IterateProposals(callback func(p *oracle.Proposal) bool) error {
	var decodeErr error
	s.tree.GetImmutable().IterateRange(proposalPrefix, prefixEnd(proposalPrefix), true, func(key []byte, value []byte) bool {
		p, err := DecodeProposal(value)
		if err != nil {
			decodeErr = errors.Wrapf(err, "proposal %x", key)
			return true
		}
		return callback(p)
	})
	return decodeErr
}

// IterateVoteAccounts walks the committed ballots of one proposal.
func (s *StateDB) IterateVoteAccounts(name string, callback func(v *oracle.VoteAccount) bool) error {
	prefix := StateDbKeys.VoteAccountPrefix(name)
	var decodeErr error
	s.tree.GetImmutable().IterateRange(prefix, prefixEnd(prefix), true, func(key []byte, value []byte) bool {
		v, err := DecodeVoteAccount(name, value)
		if err != nil {
			decodeErr = errors.Wrapf(err, "vote account %x", key)
			return true
		}
		return callback(v)
	})
	return decodeErr
}

// Precommit moves buffered writes into the working tree in key order.
func (s *StateDB) Precommit() []*StateTreeDiff {
	s.lock.Lock()
	defer s.lock.Unlock()

	keys := make([]string, 0, s.dirty.Cardinality())
	for _, k := range s.dirty.ToSlice() {
		keys = append(keys, k.(string))
	}
	sort.Strings(keys)

	var diffs []*StateTreeDiff
	for _, k := range keys {
		value := s.cache[k]
		key := []byte(k)
		if value == nil {
			s.tree.Remove(key)
			diffs = append(diffs, &StateTreeDiff{Key: key, Deleted: true})
			continue
		}
		s.tree.Set(key, value)
		diffs = append(diffs, &StateTreeDiff{Key: key, Value: value})
	}
	s.cache = make(map[string][]byte)
	s.dirty.Clear()
	return diffs
}

// Commit saves a new tree version and prunes the oldest ones.
func (s *StateDB) Commit() (diffs []*StateTreeDiff, root common.Hash, version int64, err error) {
	diffs = s.Precommit()
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return nil, common.Hash{}, 0, errors.Wrap(err, "failed to save state version")
	}
	if version > MaxSavedStatesCount {
		versions := s.tree.AvailableVersions()
		for i := 0; i < len(versions)-MaxSavedStatesCount; i++ {
			if s.tree.ExistVersion(int64(versions[i])) {
				if err := s.tree.DeleteVersion(int64(versions[i])); err != nil {
					s.log.Warn("failed to delete state version", "version", versions[i], "err", err)
				}
			}
		}
	}
	root.SetBytes(hash)
	s.log.Trace("state committed", "version", version, "root", root.Hex(), "changes", len(diffs))
	return diffs, root, version, nil
}

func (s *StateDB) Reset() {
	s.Clear()
	s.tree.Rollback()
}

// HasPending reports whether writes are buffered since the last commit.
func (s *StateDB) HasPending() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.dirty.Cardinality() > 0
}
