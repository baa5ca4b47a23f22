package crypto

import (
	"encoding/hex"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestHash(t *testing.T) {
	empty := Hash()
	require.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", hex.EncodeToString(empty[:]))

	joined := Hash([]byte("300salt"))
	parts := Hash([]byte("300"), []byte("salt"))
	require.Equal(t, joined, parts)
	require.NotEqual(t, joined, Hash([]byte("301salt")))
}
