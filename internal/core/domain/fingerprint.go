package domain

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// FingerprintBits is the fixed length of a perceptual hash bit vector.
// 256 bits corresponds to a 16x16 DCT coefficient block.
const FingerprintBits = 256

// fingerprintWords is the number of 64-bit words backing a fingerprint.
const fingerprintWords = FingerprintBits / 64

// Fingerprint is a fixed-length perceptual hash of a page raster.
// Two fingerprints are compared by Hamming distance; a lower distance
// means more similar pixel content.
type Fingerprint [fingerprintWords]uint64

// SetBit sets bit i (0 <= i < FingerprintBits).
func (f *Fingerprint) SetBit(i int) {
	f[i/64] |= 1 << uint(i%64)
}

// Bit reports whether bit i is set.
func (f Fingerprint) Bit(i int) bool {
	return f[i/64]&(1<<uint(i%64)) != 0
}

// Distance returns the Hamming distance to another fingerprint.
func (f Fingerprint) Distance(other Fingerprint) int {
	d := 0
	for i := range f {
		d += bits.OnesCount64(f[i] ^ other[i])
	}
	return d
}

// Bytes returns the fingerprint as a little-endian byte slice, suitable
// for storage in a cache entry.
func (f Fingerprint) Bytes() []byte {
	buf := make([]byte, FingerprintBits/8)
	for i, w := range f {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	return buf
}

// FingerprintFromBytes reconstructs a fingerprint from its byte form.
func FingerprintFromBytes(data []byte) (Fingerprint, error) {
	var f Fingerprint
	if len(data) != FingerprintBits/8 {
		return f, fmt.Errorf("%w: fingerprint must be %d bytes, got %d",
			ErrInvalidInput, FingerprintBits/8, len(data))
	}
	for i := range f {
		f[i] = binary.LittleEndian.Uint64(data[i*8:])
	}
	return f, nil
}

// String returns the fingerprint as lowercase hex.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x%016x%016x%016x", f[3], f[2], f[1], f[0])
}
