package clay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParams(t *testing.T) {
	cases := []struct {
		name                   string
		k, m, d                int
		wantQ, wantT, wantA, b int
	}{
		{"paper-6-4-5", 4, 2, 5, 2, 3, 8, 4},
		{"12-9-11", 9, 3, 11, 3, 4, 81, 27},
		{"14-10-13", 10, 4, 13, 4, 4, 256, 64},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := newParams(tc.k, tc.m, tc.d)
			require.NoError(t, err)
			assert.Equal(t, tc.wantQ, p.Q)
			assert.Equal(t, tc.wantT, p.T)
			assert.Equal(t, tc.wantA, p.SubChunkNo)
			assert.Equal(t, tc.b, p.Beta)
		})
	}
}

func TestNewParamsInvalid(t *testing.T) {
	_, err := newParams(0, 2, 1)
	assert.Error(t, err)

	_, err = newParams(4, 0, 3)
	assert.Error(t, err)

	_, err = newParams(4, 2, 4) // d < k+1
	assert.Error(t, err)

	_, err = newParams(4, 2, 6) // d > k+m-1
	assert.Error(t, err)
}

func TestCheckedPow(t *testing.T) {
	// Go's int is signed, so the overflow boundary sits at 2^62 (unlike the
	// reference's unsigned usize, which tolerates 2^63).
	v, ok := checkedPow(2, 62)
	assert.True(t, ok)
	assert.Equal(t, 1<<62, v)

	_, ok = checkedPow(2, 63)
	assert.False(t, ok)

	_, ok = checkedPow(10, 20)
	assert.False(t, ok)
}
