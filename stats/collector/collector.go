package collector

import (
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	statsTypes "github.com/idena-network/idena-oracle/stats/types"
)

type StatsCollector interface {
	AddConfigUpdate(mint common.Address)
	AddProposal(name string, stake uint64)
	AddOracleVotingCommit(name string, voter common.Address, votePower uint32)
	AddOracleVotingCancel(name string, voter common.Address, refund uint64)
	AddOracleVotingReveal(name string, voter common.Address, vote fixedpoint.Q32)
	AddOracleVotingInvalidReveal(name string, voter common.Address)
	AddOracleVotingFinalization(name string, consensus fixedpoint.Q32, scale fixedpoint.Q32)
	AddProposerReward(name string, proposer common.Address, amount uint64)
	AddVoterReward(name string, voter common.Address, amount uint64)
	AddVoterRefund(name string, voter common.Address, amount uint64)
	AddProtocolFee(name string, amount uint64)
	AddFailedOperation(operation string)

	Stats() statsTypes.OracleStats
}

type collectorStub struct {
}

func NewStatsCollector() StatsCollector {
	return &collectorStub{}
}

func (c *collectorStub) AddConfigUpdate(mint common.Address) {
	// do nothing
}

func AddConfigUpdate(c StatsCollector, mint common.Address) {
	if c == nil {
		return
	}
	c.AddConfigUpdate(mint)
}

func (c *collectorStub) AddProposal(name string, stake uint64) {
	// do nothing
}

func AddProposal(c StatsCollector, name string, stake uint64) {
	if c == nil {
		return
	}
	c.AddProposal(name, stake)
}

func (c *collectorStub) AddOracleVotingCommit(name string, voter common.Address, votePower uint32) {
	// do nothing
}

func AddOracleVotingCommit(c StatsCollector, name string, voter common.Address, votePower uint32) {
	if c == nil {
		return
	}
	c.AddOracleVotingCommit(name, voter, votePower)
}

func (c *collectorStub) AddOracleVotingCancel(name string, voter common.Address, refund uint64) {
	// do nothing
}

func AddOracleVotingCancel(c StatsCollector, name string, voter common.Address, refund uint64) {
	if c == nil {
		return
	}
	c.AddOracleVotingCancel(name, voter, refund)
}

func (c *collectorStub) AddOracleVotingReveal(name string, voter common.Address, vote fixedpoint.Q32) {
	// do nothing
}

func AddOracleVotingReveal(c StatsCollector, name string, voter common.Address, vote fixedpoint.Q32) {
	if c == nil {
		return
	}
	c.AddOracleVotingReveal(name, voter, vote)
}

func (c *collectorStub) AddOracleVotingInvalidReveal(name string, voter common.Address) {
	// do nothing
}

func AddOracleVotingInvalidReveal(c StatsCollector, name string, voter common.Address) {
	if c == nil {
		return
	}
	c.AddOracleVotingInvalidReveal(name, voter)
}

func (c *collectorStub) AddOracleVotingFinalization(name string, consensus fixedpoint.Q32, scale fixedpoint.Q32) {
	// do nothing
}

func AddOracleVotingFinalization(c StatsCollector, name string, consensus fixedpoint.Q32, scale fixedpoint.Q32) {
	if c == nil {
		return
	}
	c.AddOracleVotingFinalization(name, consensus, scale)
}

func (c *collectorStub) AddProposerReward(name string, proposer common.Address, amount uint64) {
	// do nothing
}

func AddProposerReward(c StatsCollector, name string, proposer common.Address, amount uint64) {
	if c == nil {
		return
	}
	c.AddProposerReward(name, proposer, amount)
}

func (c *collectorStub) AddVoterReward(name string, voter common.Address, amount uint64) {
	// do nothing
}

func AddVoterReward(c StatsCollector, name string, voter common.Address, amount uint64) {
	if c == nil {
		return
	}
	c.AddVoterReward(name, voter, amount)
}

func (c *collectorStub) AddVoterRefund(name string, voter common.Address, amount uint64) {
	// do nothing
}

func AddVoterRefund(c StatsCollector, name string, voter common.Address, amount uint64) {
	if c == nil {
		return
	}
	c.AddVoterRefund(name, voter, amount)
}

func (c *collectorStub) AddProtocolFee(name string, amount uint64) {
	// do nothing
}

func AddProtocolFee(c StatsCollector, name string, amount uint64) {
	if c == nil {
		return
	}
	c.AddProtocolFee(name, amount)
}

func (c *collectorStub) AddFailedOperation(operation string) {
	// do nothing
}

func AddFailedOperation(c StatsCollector, operation string) {
	if c == nil {
		return
	}
	c.AddFailedOperation(operation)
}

func (c *collectorStub) Stats() statsTypes.OracleStats {
	return statsTypes.OracleStats{}
}
