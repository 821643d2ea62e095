package sqlite

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ferrule-labs/scantext/internal/core/domain"
)

// encodeVector packs a float32 slice into a little-endian IEEE 754 BLOB.
// No length prefix is stored; the dimension is derived from the BLOB size
// on decode.
func encodeVector(vec []float32) []byte {
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// decodeVector unpacks a BLOB produced by encodeVector.
func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: embedding blob length %d is not a multiple of 4",
			domain.ErrIndexCorrupted, len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}

// dot computes the inner product of two equal-length vectors in float64
// for a stable score. Both sides are unit-normalised by the embedding
// adapter, so the result equals cosine similarity.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
