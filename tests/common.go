package tests

import (
	"encoding/hex"
	"github.com/google/tink/go/subtle/random"
	"github.com/idena-network/idena-oracle/common"
)

func GetRandAddr() common.Address {
	addr := common.Address{}
	addr.SetBytes(random.GetRandomBytes(20))
	return addr
}

// GetRandSalt returns a hex salt suitable for a vote commitment.
func GetRandSalt() string {
	return hex.EncodeToString(random.GetRandomBytes(16))
}
