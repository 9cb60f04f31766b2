package clay

import "fmt"

// maxRSShards bounds the number of shards handed to the underlying MDS
// codec, matching the reedsolomon/RS-crate family's practical ceiling.
const maxRSShards = 32768

// Params holds a Clay code's derived parameters: the scalar MDS shape
// (k, m) is "moulded" through a coupling factor q into a layered code with
// sub-packetization level α = q^t.
type Params struct {
	K, M, N, D int
	Q          int
	T          int
	Nu         int
	SubChunkNo int // α = q^t
	Beta       int // β = α / q

	originalCount int // k + nu, RS data shard count
	recoveryCount int // m, RS parity shard count
}

// newParams derives a Params for a (k, m, d) Clay code: k data chunks, m
// parity chunks, and d helper nodes engaged during single-node repair.
func newParams(k, m, d int) (Params, error) {
	if k < 1 {
		return Params{}, &ErrInvalidParameters{Msg: "k must be at least 1"}
	}
	if m < 1 {
		return Params{}, &ErrInvalidParameters{Msg: "m must be at least 1"}
	}
	if d < k+1 || d > k+m-1 {
		return Params{}, &ErrInvalidParameters{
			Msg: fmt.Sprintf("d must be in range [%d, %d], got %d", k+1, k+m-1, d),
		}
	}

	q := d - k + 1
	n := k + m

	nu := 0
	if n%q != 0 {
		nu = q - (n % q)
	}
	t := (n + nu) / q

	subChunkNo, ok := checkedPow(q, t)
	if !ok {
		return Params{}, &ErrOverflow{Msg: fmt.Sprintf("q^t = %d^%d overflows", q, t)}
	}
	beta := subChunkNo / q

	originalCount := k + nu
	recoveryCount := m
	if originalCount > maxRSShards || recoveryCount > maxRSShards {
		return Params{}, &ErrInvalidParameters{Msg: "total nodes exceeds reed-solomon limit of 32768"}
	}

	return Params{
		K: k, M: m, N: n, D: d,
		Q: q, T: t, Nu: nu,
		SubChunkNo:    subChunkNo,
		Beta:          beta,
		originalCount: originalCount,
		recoveryCount: recoveryCount,
	}, nil
}

// String renders Params for debugging/logging, the Go analogue of the
// reference implementation's derived Debug output.
func (p Params) String() string {
	return fmt.Sprintf(
		"Params{k=%d m=%d n=%d d=%d q=%d t=%d nu=%d subChunkNo=%d beta=%d}",
		p.K, p.M, p.N, p.D, p.Q, p.T, p.Nu, p.SubChunkNo, p.Beta,
	)
}

// totalNodes is the internal (shortened) node count: q*t = k + m + nu.
func (p Params) totalNodes() int {
	return p.Q * p.T
}

// checkedPow computes base^exp using right-to-left binary exponentiation,
// reporting overflow instead of wrapping. Consolidates what the reference
// implementation duplicated between parameter derivation and repair
// planning into a single helper.
func checkedPow(base, exp int) (int, bool) {
	result := 1
	b := base
	e := exp
	for e > 0 {
		if e&1 == 1 {
			next := result * b
			if b != 0 && next/b != result {
				return 0, false
			}
			result = next
		}
		e >>= 1
		if e > 0 {
			next := b * b
			if b != 0 && next/b != b {
				return 0, false
			}
			b = next
		}
	}
	return result, true
}
