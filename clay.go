// Package clay implements Clay (Coupled-Layer) erasure codes: Minimum
// Storage Regenerating codes built by moulding a scalar MDS code with a
// layered pairwise coupling transform, after the FAST'18 paper "Clay
// Codes: Moulding MDS Codes to Yield an MSR Code". Clay codes match
// Reed–Solomon's storage overhead and erasure tolerance, but repair a
// single failed node from β = α/q sub-chunks per helper rather than k
// full chunks.
package clay

import "fmt"

// Code is a Clay (Coupled-Layer) erasure code for a given (k, m, d). It is
// safe for concurrent use: the underlying MDS codec is built once, lazily,
// and cached.
type Code struct {
	Params

	codec *mds
}

// New constructs a Code for (k, m, d): k data chunks, m parity chunks, d
// helper nodes engaged during single-node repair.
func New(k, m, d int) (*Code, error) {
	p, err := newParams(k, m, d)
	if err != nil {
		return nil, err
	}
	return &Code{Params: p, codec: newMDS(p.originalCount, p.recoveryCount)}, nil
}

// NewDefault constructs a Code using the maximum number of helpers,
// d = k+m-1.
func NewDefault(k, m int) (*Code, error) {
	return New(k, m, k+m-1)
}

// mds returns the Code's cached scalar MDS codec.
func (c *Code) mds() *mds {
	return c.codec
}

// NormalizedRepairBandwidth reports the ratio of data downloaded during a
// single-node repair (d helpers × β sub-chunks) to the k full chunks a
// conventional MDS repair downloads: d / (k·q).
func (c *Code) NormalizedRepairBandwidth() float64 {
	return float64(c.D) / (float64(c.K) * float64(c.Q))
}

func (c *Code) String() string {
	return fmt.Sprintf("Code{%s}", c.Params.String())
}

// Decode recovers the original payload from the available chunks, given
// the external indices known to be erased. It returns k·α·S bytes; the
// caller truncates to the original payload length.
func (c *Code) Decode(available map[int][]byte, erasures []int) ([]byte, error) {
	p := c.Params

	if len(available) == 0 && len(erasures) == 0 {
		return nil, nil
	}
	if len(available) == 0 {
		return nil, &ErrInvalidParameters{Msg: "no available chunks provided but erasures are non-empty"}
	}
	if len(erasures) > p.M {
		return nil, &ErrTooManyErasures{Max: p.M, Actual: len(erasures)}
	}

	var chunkSize int
	first := true
	for idx, chunk := range available {
		if first {
			chunkSize = len(chunk)
			first = false
		}
		if idx < 0 || idx >= p.N {
			return nil, &ErrInvalidParameters{Msg: fmt.Sprintf("chunk index %d out of range [0, %d)", idx, p.N)}
		}
	}
	if chunkSize == 0 || chunkSize%p.SubChunkNo != 0 {
		return nil, &ErrInvalidChunkSize{Expected: p.SubChunkNo, Actual: chunkSize}
	}
	for idx, chunk := range available {
		if len(chunk) != chunkSize {
			return nil, &ErrInconsistentChunkSizes{FirstSize: chunkSize, MismatchedIdx: idx, MismatchedSize: len(chunk)}
		}
	}
	for _, e := range erasures {
		if e < 0 || e >= p.N {
			return nil, &ErrInvalidParameters{Msg: fmt.Sprintf("erasure index %d out of range [0, %d)", e, p.N)}
		}
	}

	erasureSet := make(map[int]bool, len(erasures))
	for _, e := range erasures {
		erasureSet[e] = true
		if _, ok := available[e]; ok {
			return nil, &ErrInvalidParameters{Msg: fmt.Sprintf("node %d is both in available chunks and marked as erased", e)}
		}
	}

	expectedAvailable := p.N - len(erasures)
	if len(available) != expectedAvailable {
		return nil, &ErrInvalidParameters{Msg: fmt.Sprintf(
			"expected %d available chunks (n=%d - erasures=%d), but got %d",
			expectedAvailable, p.N, len(erasures), len(available),
		)}
	}
	for node := 0; node < p.N; node++ {
		if !erasureSet[node] {
			if _, ok := available[node]; !ok {
				return nil, &ErrInvalidParameters{Msg: fmt.Sprintf("node %d is neither erased nor provided in available chunks", node)}
			}
		}
	}

	subChunkSize := chunkSize / p.SubChunkNo
	total := p.totalNodes()

	chunks := make([][]byte, total)
	for i := 0; i < total; i++ {
		chunks[i] = make([]byte, chunkSize)
	}
	for idx, data := range available {
		chunks[externalToInternal(idx, p.K, p.Nu)] = append([]byte(nil), data...)
	}

	internalErased := make(map[int]bool, len(erasures))
	for _, e := range erasures {
		internalErased[externalToInternal(e, p.K, p.Nu)] = true
	}

	if err := decodeLayered(p, c.mds(), internalErased, chunks, subChunkSize); err != nil {
		return nil, err
	}

	result := make([]byte, 0, p.K*chunkSize)
	for i := 0; i < p.K; i++ {
		result = append(result, chunks[i]...)
	}
	return result, nil
}
