package common

import (
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestAddress_SetBytes(t *testing.T) {
	a := HexToAddress("0x4d60dc6a2cba8c3ef1ba5e1eba5c12c54cee6b61")
	require.Equal(t, "0x4d60dc6a2cba8c3ef1ba5e1eba5c12c54cee6b61", a.Hex())

	var b Address
	b.SetBytes([]byte{0x1, 0x2})
	require.Equal(t, byte(0x1), b[18])
	require.Equal(t, byte(0x2), b[19])
	require.False(t, b.IsEmpty())
	require.True(t, Address{}.IsEmpty())
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(100)
	require.Equal(t, int64(100), c.Now())
	c.Advance(time.Minute)
	require.Equal(t, int64(160), c.Now())
	c.Set(5)
	require.Equal(t, int64(5), c.Now())
}

func TestAddress_Text(t *testing.T) {
	a := HexToAddress("0x4d60dc6a2cba8c3ef1ba5e1eba5c12c54cee6b61")
	text, err := a.MarshalText()
	require.NoError(t, err)

	var b Address
	require.NoError(t, b.UnmarshalText(text))
	require.Equal(t, a, b)

	require.Error(t, b.UnmarshalText([]byte("0x0102")))
	require.Error(t, b.UnmarshalText([]byte("zz")))
}
