package state

import (
	"github.com/idena-network/idena-oracle/common"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"
	"math/rand"
	"testing"
	"time"
)

func TestMutableTree_Hash(t *testing.T) {
	tree := NewMutableTree(dbm.NewMemDB())
	tree.Set([]byte{0x1}, []byte{0x2})
	tree.Set([]byte{0x3}, []byte{0x4})
	require.NotEqual(t, common.Hash{}, tree.WorkingHash())
	require.Equal(t, common.Hash{}, tree.Hash())

	_, _, err := tree.SaveVersion()
	require.NoError(t, err)
	require.Equal(t, tree.WorkingHash(), tree.Hash())
}

func TestMutableTree_Rollback(t *testing.T) {
	tree := NewMutableTree(dbm.NewMemDB())
	tree.Set([]byte{0x1}, []byte{0x1})
	_, _, err := tree.SaveVersion()
	require.NoError(t, err)

	tree.Set([]byte{0x1}, []byte{0x2})
	tree.Set([]byte{0x2}, []byte{0x2})
	tree.Rollback()

	_, v := tree.Get([]byte{0x1})
	require.Equal(t, []byte{0x1}, v)
	_, v = tree.Get([]byte{0x2})
	require.Nil(t, v)
	require.Equal(t, int64(1), tree.Version())
}

func TestMutableTree_LoadVersion(t *testing.T) {
	tree := NewMutableTree(dbm.NewMemDB())
	const assertVersion = 6
	var hash common.Hash

	var repeat [][]byte
	rnd := rand.New(rand.NewSource(time.Now().Unix()))
	for i := 1; i < 20; i++ {
		for _, key := range repeat {
			tree.Set(key, common.ToBytes(rnd.Uint64()))
		}
		repeat = make([][]byte, 0)

		for j := 0; j < 100; j++ {
			key := common.ToBytes(uint32(rnd.Int31n(10000000)))
			tree.Set(key, common.ToBytes(rnd.Uint64()))
			if j > 90 {
				repeat = append(repeat, key)
			}
		}
		tree.SaveVersion()
		if i == assertVersion {
			hash = tree.WorkingHash()
		}
	}
	tree.LoadVersion(assertVersion)

	require.Equal(t, hash, tree.WorkingHash())
}

func TestImmutableTree_IterateRange(t *testing.T) {
	tree := NewMutableTree(dbm.NewMemDB())
	tree.Set([]byte{0x1, 0x1}, []byte{0x1})
	tree.Set([]byte{0x1, 0x2}, []byte{0x2})
	tree.Set([]byte{0x2, 0x1}, []byte{0x3})
	tree.SaveVersion()

	var values [][]byte
	tree.GetImmutable().IterateRange([]byte{0x1}, []byte{0x2}, true, func(key []byte, value []byte) bool {
		values = append(values, value)
		return false
	})
	require.Equal(t, [][]byte{{0x1}, {0x2}}, values)
}
