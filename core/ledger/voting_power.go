package ledger

import (
	"github.com/idena-network/idena-oracle/common"
	"github.com/patrickmn/go-cache"
	"sync"
	"time"
)

// VotingPowerOracle supplies the weight of an identity in token base units.
type VotingPowerOracle interface {
	VotingPower(voter common.Address) (uint64, error)
	TotalVotingPower() (uint64, error)
}

// StaticVotingPower is a fixed table of voting power, set by the operator.
type StaticVotingPower struct {
	powers map[common.Address]uint64
	total  uint64
	lock   sync.RWMutex
}

func NewStaticVotingPower() *StaticVotingPower {
	return &StaticVotingPower{powers: make(map[common.Address]uint64)}
}

func (s *StaticVotingPower) Set(voter common.Address, power uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.total = s.total - s.powers[voter] + power
	if power == 0 {
		delete(s.powers, voter)
		return
	}
	s.powers[voter] = power
}

func (s *StaticVotingPower) VotingPower(voter common.Address) (uint64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.powers[voter], nil
}

func (s *StaticVotingPower) TotalVotingPower() (uint64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.total, nil
}

const totalPowerKey = "total"

// CachedVotingPower memoizes an oracle for ttl.
type CachedVotingPower struct {
	inner VotingPowerOracle
	cache *cache.Cache
}

func NewCachedVotingPower(inner VotingPowerOracle, ttl time.Duration) *CachedVotingPower {
	return &CachedVotingPower{
		inner: inner,
		cache: cache.New(ttl, ttl*2),
	}
}

func (c *CachedVotingPower) VotingPower(voter common.Address) (uint64, error) {
	key := voter.Hex()
	if power, ok := c.cache.Get(key); ok {
		return power.(uint64), nil
	}
	power, err := c.inner.VotingPower(voter)
	if err != nil {
		return 0, err
	}
	c.cache.SetDefault(key, power)
	return power, nil
}

func (c *CachedVotingPower) TotalVotingPower() (uint64, error) {
	if total, ok := c.cache.Get(totalPowerKey); ok {
		return total.(uint64), nil
	}
	total, err := c.inner.TotalVotingPower()
	if err != nil {
		return 0, err
	}
	c.cache.SetDefault(totalPowerKey, total)
	return total, nil
}

// Flush drops every cached value.
func (c *CachedVotingPower) Flush() {
	c.cache.Flush()
}
