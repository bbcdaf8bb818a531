package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_SetAndGetBits(t *testing.T) {
	var f Fingerprint
	for _, i := range []int{0, 1, 63, 64, 127, 200, 255} {
		assert.False(t, f.Bit(i))
		f.SetBit(i)
		assert.True(t, f.Bit(i))
	}
}

func TestFingerprint_Distance(t *testing.T) {
	var a, b Fingerprint
	assert.Equal(t, 0, a.Distance(b))

	a.SetBit(0)
	a.SetBit(100)
	a.SetBit(255)
	assert.Equal(t, 3, a.Distance(b))
	assert.Equal(t, 3, b.Distance(a), "distance is symmetric")

	b.SetBit(100)
	assert.Equal(t, 2, a.Distance(b))
}

func TestFingerprint_BytesRoundTrip(t *testing.T) {
	var f Fingerprint
	f.SetBit(3)
	f.SetBit(77)
	f.SetBit(254)

	data := f.Bytes()
	require.Len(t, data, FingerprintBits/8)

	back, err := FingerprintFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, f, back)
}

func TestFingerprintFromBytes_WrongLength(t *testing.T) {
	_, err := FingerprintFromBytes([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFingerprint_String(t *testing.T) {
	var f Fingerprint
	assert.Len(t, f.String(), 64)

	f.SetBit(0)
	assert.Equal(t, "1", f.String()[63:])
}
