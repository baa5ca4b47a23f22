package oracle

import (
	"github.com/idena-network/idena-oracle/common"
	"github.com/idena-network/idena-oracle/common/fixedpoint"
	"github.com/idena-network/idena-oracle/crypto"
)

// VoteHash is the commitment to a vote: keccak256(decimal(vote) ∥ salt).
func VoteHash(vote fixedpoint.Q32, salt string) common.Hash {
	return crypto.Hash([]byte(vote.String()), []byte(salt))
}

// ComputeVaultAddr derives the address holding the stakes of a proposal.
func ComputeVaultAddr(proposalName string) common.Address {
	hash := crypto.Hash([]byte("vault"), []byte(proposalName))
	var result common.Address
	result.SetBytes(hash[:])
	return result
}
