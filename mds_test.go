package clay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMDSEncodeReconstruct(t *testing.T) {
	m := newMDS(4, 2)

	shards := make([][]byte, 6)
	for i := 0; i < 4; i++ {
		shards[i] = []byte{byte(i), byte(i + 1), byte(i + 2), byte(i + 3)}
	}
	shards[4] = make([]byte, 4)
	shards[5] = make([]byte, 4)

	require.NoError(t, m.encode(shards))

	original := make([][]byte, 6)
	for i := range shards {
		original[i] = append([]byte(nil), shards[i]...)
	}

	// Lose one data shard and one parity shard.
	lossy := make([][]byte, 6)
	copy(lossy, shards)
	lossy[1] = nil
	lossy[5] = nil

	require.NoError(t, m.reconstruct(lossy))
	require.Equal(t, original, lossy)
}

func TestMDSCachesEncoder(t *testing.T) {
	m := newMDS(4, 2)
	enc1, err := m.encoderOnce()
	require.NoError(t, err)
	enc2, err := m.encoderOnce()
	require.NoError(t, err)
	require.Same(t, enc1, enc2)
}
