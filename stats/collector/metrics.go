package collector

import (
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	statsTypes "github.com/idena-network/idena-oracle/stats/types"
	"github.com/rcrowley/go-metrics"
)

const (
	configUpdatesMetric     = "oracle.config_updates"
	proposalsMetric         = "oracle.proposals"
	committedVotesMetric    = "oracle.votes.committed"
	committedPowerMetric    = "oracle.votes.committed_power"
	cancelledVotesMetric    = "oracle.votes.cancelled"
	revealedVotesMetric     = "oracle.votes.revealed"
	invalidRevealsMetric    = "oracle.votes.invalid_reveals"
	finalizedMetric         = "oracle.proposals.finalized"
	proposerRewardsMetric   = "oracle.rewards.proposer"
	voterRewardsMetric      = "oracle.rewards.voter"
	voterRefundsMetric      = "oracle.rewards.refund"
	protocolFeesMetric      = "oracle.rewards.fee"
	failedOperationsMetric  = "oracle.operations.failed"
	failedOperationPrefix   = "oracle.operations.failed."
	scaleParameterGaugeName = "oracle.last_scale_parameter"
)

// metricsCollector counts oracle activity in a go-metrics registry. Amounts
// are counted in token base units.
type metricsCollector struct {
	registry metrics.Registry
}

func NewMetricsCollector(registry metrics.Registry) StatsCollector {
	if registry == nil {
		registry = metrics.DefaultRegistry
	}
	return &metricsCollector{registry: registry}
}

func (c *metricsCollector) counter(name string) metrics.Counter {
	return metrics.GetOrRegisterCounter(name, c.registry)
}

func (c *metricsCollector) AddConfigUpdate(mint common.Address) {
	c.counter(configUpdatesMetric).Inc(1)
}

func (c *metricsCollector) AddProposal(name string, stake uint64) {
	c.counter(proposalsMetric).Inc(1)
}

func (c *metricsCollector) AddOracleVotingCommit(name string, voter common.Address, votePower uint32) {
	c.counter(committedVotesMetric).Inc(1)
	c.counter(committedPowerMetric).Inc(int64(votePower))
}

func (c *metricsCollector) AddOracleVotingCancel(name string, voter common.Address, refund uint64) {
	c.counter(cancelledVotesMetric).Inc(1)
}

func (c *metricsCollector) AddOracleVotingReveal(name string, voter common.Address, vote fixedpoint.Q32) {
	c.counter(revealedVotesMetric).Inc(1)
}

func (c *metricsCollector) AddOracleVotingInvalidReveal(name string, voter common.Address) {
	c.counter(invalidRevealsMetric).Inc(1)
}

func (c *metricsCollector) AddOracleVotingFinalization(name string, consensus fixedpoint.Q32, scale fixedpoint.Q32) {
	c.counter(finalizedMetric).Inc(1)
	metrics.GetOrRegisterGaugeFloat64(scaleParameterGaugeName, c.registry).Update(scale.Float64())
}

func (c *metricsCollector) AddProposerReward(name string, proposer common.Address, amount uint64) {
	c.counter(proposerRewardsMetric).Inc(int64(amount))
}

func (c *metricsCollector) AddVoterReward(name string, voter common.Address, amount uint64) {
	c.counter(voterRewardsMetric).Inc(int64(amount))
}

func (c *metricsCollector) AddVoterRefund(name string, voter common.Address, amount uint64) {
	c.counter(voterRefundsMetric).Inc(int64(amount))
}

func (c *metricsCollector) AddProtocolFee(name string, amount uint64) {
	c.counter(protocolFeesMetric).Inc(int64(amount))
}

func (c *metricsCollector) AddFailedOperation(operation string) {
	c.counter(failedOperationsMetric).Inc(1)
	c.counter(failedOperationPrefix + operation).Inc(1)
}

func (c *metricsCollector) Stats() statsTypes.OracleStats {
	return statsTypes.OracleStats{
		ConfigUpdates:      c.counter(configUpdatesMetric).Count(),
		Proposals:          c.counter(proposalsMetric).Count(),
		CommittedVotes:     c.counter(committedVotesMetric).Count(),
		CommittedPower:     c.counter(committedPowerMetric).Count(),
		CancelledVotes:     c.counter(cancelledVotesMetric).Count(),
		RevealedVotes:      c.counter(revealedVotesMetric).Count(),
		InvalidReveals:     c.counter(invalidRevealsMetric).Count(),
		FinalizedProposals: c.counter(finalizedMetric).Count(),
		ProposerRewards:    c.counter(proposerRewardsMetric).Count(),
		VoterRewards:       c.counter(voterRewardsMetric).Count(),
		VoterRefunds:       c.counter(voterRefundsMetric).Count(),
		ProtocolFees:       c.counter(protocolFeesMetric).Count(),
		FailedOperations:   c.counter(failedOperationsMetric).Count(),
	}
}
