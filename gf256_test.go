package clay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGfAdd(t *testing.T) {
	assert.Equal(t, byte(6), gfAdd(5, 3)) // 5 XOR 3
}

func TestGfMul(t *testing.T) {
	assert.Equal(t, byte(6), gfMul(2, 3))
	assert.Equal(t, byte(0), gfMul(0, 200))
	assert.Equal(t, byte(0), gfMul(200, 0))
}

func TestGfInv(t *testing.T) {
	for a := 1; a < 256; a++ {
		inv := gfInv(byte(a))
		assert.Equal(t, byte(1), gfMul(byte(a), inv), "a=%d", a)
	}
}

func TestGfDivRoundtrip(t *testing.T) {
	for a := 1; a < 256; a++ {
		for b := 1; b < 256; b++ {
			q := gfDiv(byte(a), byte(b))
			assert.Equal(t, byte(a), gfMul(q, byte(b)), "a=%d b=%d", a, b)
		}
	}
}
