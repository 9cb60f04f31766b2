package clay

import (
	"fmt"
	"sync"

	"github.com/klauspost/reedsolomon"
)

// mds lazily constructs and caches the scalar MDS codec a Code moulds,
// following MinIO's Erasure struct in cmd/erasure-coding.go: the
// reedsolomon.Encoder is expensive enough to build (it precomputes a
// Vandermonde-derived matrix) that it's worth amortising across every
// layer of every Encode/Decode/Repair call on the same Code value.
type mds struct {
	dataShards, parityShards int

	once    sync.Once
	encoder reedsolomon.Encoder
	buildErr error
}

func newMDS(dataShards, parityShards int) *mds {
	return &mds{dataShards: dataShards, parityShards: parityShards}
}

func (m *mds) encoderOnce() (reedsolomon.Encoder, error) {
	m.once.Do(func() {
		m.encoder, m.buildErr = reedsolomon.New(m.dataShards, m.parityShards)
	})
	if m.buildErr != nil {
		return nil, &ErrReconstructionFailed{Msg: "reed-solomon codec construction failed", Err: m.buildErr}
	}
	return m.encoder, nil
}

// reconstruct fills the nil shards in place from the non-nil ones.
func (m *mds) reconstruct(shards [][]byte) error {
	enc, err := m.encoderOnce()
	if err != nil {
		return err
	}
	if err := enc.Reconstruct(shards); err != nil {
		return &ErrReconstructionFailed{Msg: "reconstruct failed", Err: err}
	}
	return nil
}

// encode fills the parity shards (indices dataShards..dataShards+parityShards)
// in place from the data shards. All shards must already be correctly
// sized and the data shards populated.
func (m *mds) encode(shards [][]byte) error {
	enc, err := m.encoderOnce()
	if err != nil {
		return err
	}
	if err := enc.Encode(shards); err != nil {
		return &ErrReconstructionFailed{Msg: "encode failed", Err: err}
	}
	return nil
}

func (m *mds) String() string {
	return fmt.Sprintf("mds{data=%d parity=%d}", m.dataShards, m.parityShards)
}
