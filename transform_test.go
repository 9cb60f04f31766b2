package clay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGammaProperties(t *testing.T) {
	assert.NotEqual(t, byte(0), gamma)
	assert.NotEqual(t, byte(1), gfMul(gamma, gamma))
}

func TestPrtPftRoundtrip(t *testing.T) {
	c := []byte{0x12, 0x34, 0x56, 0x78}
	cStar := []byte{0xAB, 0xCD, 0xEF, 0x01}

	u, uStar := prt(c, cStar)
	cBack, cStarBack := pft(u, uStar)

	assert.Equal(t, c, cBack)
	assert.Equal(t, cStar, cStarBack)
}

func TestPrtOrientedMatchesPlainPrt(t *testing.T) {
	c := []byte{0x42, 0x99}
	cStar := []byte{0x07, 0xFE}

	uWant, uStarWant := prt(c, cStar)
	uGot, uStarGot := prtOriented(c, cStar, true)
	assert.Equal(t, uWant, uGot)
	assert.Equal(t, uStarWant, uStarGot)

	// Swapped orientation: cStar is passed on the xy side as the non-primary
	// (starred) value, so the results come back as (U for cStar, U for c).
	uSwGot, uXYGot := prtOriented(cStar, c, false)
	assert.Equal(t, uStarWant, uSwGot)
	assert.Equal(t, uWant, uXYGot)
}

func TestCFromUAndCstarMatchesPrt(t *testing.T) {
	c := []byte{0x11, 0x22}
	cStar := []byte{0x33, 0x44}
	u, _ := prt(c, cStar)
	assert.Equal(t, c, cFromUAndCstar(u, cStar))
}

func TestUFromCAndUstarMatchesPft(t *testing.T) {
	u := []byte{0x55, 0x66}
	uStar := []byte{0x77, 0x88}
	c, _ := pft(u, uStar)
	assert.Equal(t, u, uFromCAndUstar(c, uStar))
}

func TestCstarFromCAndU(t *testing.T) {
	c := []byte{0x03}
	cStar := []byte{0x0A}
	u, _ := prt(c, cStar)
	assert.Equal(t, cStar, cstarFromCAndU(c, u))
}
