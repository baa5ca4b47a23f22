package types

// OracleStats is a point-in-time copy of the oracle counters.
type OracleStats struct {
	ConfigUpdates      int64
	Proposals          int64
	CommittedVotes     int64
	CommittedPower     int64
	CancelledVotes     int64
	RevealedVotes      int64
	InvalidReveals     int64
	FinalizedProposals int64
	ProposerRewards    int64
	VoterRewards       int64
	VoterRefunds       int64
	ProtocolFees       int64
	FailedOperations   int64
}
