package crypto

import (
	"golang.org/x/crypto/sha3"
	"hash"
	"sync"
)

var keccak256Pool = sync.Pool{New: func() interface{} {
	return sha3.NewLegacyKeccak256()
}}

// Hash computes the Keccak-256 digest of the concatenation of data.
func Hash(data ...[]byte) [32]byte {
	h, ok := keccak256Pool.Get().(hash.Hash)
	if !ok {
		h = sha3.NewLegacyKeccak256()
	}
	defer keccak256Pool.Put(h)
	h.Reset()

	var b [32]byte

	for _, item := range data {
		h.Write(item)
	}
	h.Sum(b[:0])

	return b
}
