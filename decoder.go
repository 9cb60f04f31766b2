package clay

import "fmt"

// decodeLayered is the layered decoding engine: it processes planes
// (layers) in order of increasing intersection score (IS), the count of
// erased vertices that are "red"/unpaired in that plane, applying the
// pairwise transforms to move between the coupled (C) and uncoupled (U)
// domains and falling back to the scalar MDS codec only where the pairwise
// relationships can't resolve a value.
//
// chunks holds one entry per internal node (including shortened nodes,
// already zero-filled by the caller) and is mutated in place: erased
// entries are populated with their recovered C values.
func decodeLayered(p Params, codec *mds, erased map[int]bool, chunks [][]byte, subChunkSize int) error {
	total := p.totalNodes()
	chunkSize := len(chunks[0])

	uBuf := make([][]byte, total)
	uComputed := make([][]bool, total)
	for i := 0; i < total; i++ {
		uBuf[i] = make([]byte, chunkSize)
		uComputed[i] = make([]bool, p.SubChunkNo)
	}

	order := planeDecodingOrder(p, erased)
	maxIscore := maxIntersectionScore(p, erased)

	for iscore := 0; iscore <= maxIscore; iscore++ {
		for z := 0; z < p.SubChunkNo; z++ {
			if order[z] != iscore {
				continue
			}
			if err := decodeLayerWithTracking(p, codec, erased, z, chunks, uBuf, uComputed, subChunkSize); err != nil {
				return err
			}
		}

		for z := 0; z < p.SubChunkNo; z++ {
			if order[z] != iscore {
				continue
			}
			zVec := planeVector(z, p.T, p.Q)
			for nodeXY := range erased {
				x, y := nodeToXY(nodeXY, p.Q)
				zy := zVec[y]
				nodeSW := xyToNode(zy, y, p.Q)
				zsw := companionLayer(p.SubChunkNo, p.Q, p.T, z, x, y, zy)

				switch {
				case zy == x:
					// Red vertex: C = U directly.
					off := z * subChunkSize
					copy(chunks[nodeXY][off:off+subChunkSize], uBuf[nodeXY][off:off+subChunkSize])
				case !erased[nodeSW]:
					recoverFromCompanionC(p, chunks, uBuf, x, y, z, zy, zsw, subChunkSize)
				case zy < x:
					// Both vertex and companion erased: recover the pair
					// together via PFT, once (when zy < x).
					coupledFromUncoupled(p, chunks, uBuf, x, y, z, zy, zsw, subChunkSize)
				}
			}
		}
	}

	return nil
}

// decodeLayerWithTracking computes U for every non-erased node in plane z,
// using the pairwise relationship where possible and falling back to the
// MDS codec (decodeUncoupledLayer) for whatever remains.
func decodeLayerWithTracking(
	p Params, codec *mds, erased map[int]bool, z int,
	chunks [][]byte, uBuf [][]byte, uComputed [][]bool, subChunkSize int,
) error {
	zVec := planeVector(z, p.T, p.Q)

	needsMDS := make(map[int]bool, len(erased))
	for node := range erased {
		needsMDS[node] = true
	}

	for x := 0; x < p.Q; x++ {
		for y := 0; y < p.T; y++ {
			nodeXY := xyToNode(x, y, p.Q)
			if erased[nodeXY] {
				continue
			}
			zy := zVec[y]
			nodeSW := xyToNode(zy, y, p.Q)
			zsw := companionLayer(p.SubChunkNo, p.Q, p.T, z, x, y, zy)

			off := z * subChunkSize
			switch {
			case zy == x:
				copy(uBuf[nodeXY][off:off+subChunkSize], chunks[nodeXY][off:off+subChunkSize])
				uComputed[nodeXY][z] = true
			case !erased[nodeSW]:
				if zy < x {
					uncoupledFromCoupled(p, chunks, uBuf, x, y, z, zy, zsw, subChunkSize)
					uComputed[nodeXY][z] = true
					uComputed[nodeSW][zsw] = true
				}
			case uComputed[nodeSW][zsw]:
				offSW := zsw * subChunkSize
				cXY := chunks[nodeXY][off : off+subChunkSize]
				uSW := uBuf[nodeSW][offSW : offSW+subChunkSize]
				copy(uBuf[nodeXY][off:off+subChunkSize], uFromCAndUstar(cXY, uSW))
				uComputed[nodeXY][z] = true
			default:
				needsMDS[nodeXY] = true
			}
		}
	}

	if err := decodeUncoupledLayer(p, codec, needsMDS, z, subChunkSize, uBuf); err != nil {
		return err
	}
	for node := range needsMDS {
		uComputed[node][z] = true
	}
	return nil
}

// decodeUncoupledLayer recovers U values for erased nodes in plane z using
// the scalar MDS codec: a reconstruct when original (data/shortened) shards
// are missing, or a re-encode when only parity shards need regenerating.
func decodeUncoupledLayer(p Params, codec *mds, erased map[int]bool, z, subChunkSize int, uBuf [][]byte) error {
	if len(erased) > p.M {
		return &ErrTooManyErasures{Max: p.M, Actual: len(erased)}
	}
	if len(erased) == 0 {
		return nil
	}

	total := p.totalNodes()
	offset := z * subChunkSize
	parityStart := p.originalCount

	hasOriginals, hasParities := false, false
	for node := range erased {
		if node < parityStart {
			hasOriginals = true
		} else {
			hasParities = true
		}
	}

	switch {
	case hasOriginals:
		shards := make([][]byte, total)
		for i := 0; i < total; i++ {
			if erased[i] {
				continue
			}
			shards[i] = append([]byte(nil), uBuf[i][offset:offset+subChunkSize]...)
		}
		if err := codec.reconstruct(shards); err != nil {
			return fmt.Errorf("clay: layer %d: %w", z, err)
		}
		for i := range erased {
			if shards[i] != nil {
				copy(uBuf[i][offset:offset+subChunkSize], shards[i])
			}
		}

	case hasParities:
		shards := make([][]byte, total)
		for i := 0; i < total; i++ {
			shards[i] = append([]byte(nil), uBuf[i][offset:offset+subChunkSize]...)
		}
		if err := codec.encode(shards); err != nil {
			return fmt.Errorf("clay: layer %d: %w", z, err)
		}
		for i := parityStart; i < total; i++ {
			if erased[i] {
				copy(uBuf[i][offset:offset+subChunkSize], shards[i])
			}
		}
	}

	return nil
}

// uncoupledFromCoupled applies PRT to derive U for a coupled pair (nodeXY,
// nodeSW) from their available C values, writing both results into uBuf.
func uncoupledFromCoupled(p Params, chunks [][]byte, uBuf [][]byte, x, y, z, zy, zsw, subChunkSize int) {
	nodeXY := xyToNode(x, y, p.Q)
	nodeSW := xyToNode(zy, y, p.Q)
	offZ, offZsw := z*subChunkSize, zsw*subChunkSize

	cXY := chunks[nodeXY][offZ : offZ+subChunkSize]
	cSW := chunks[nodeSW][offZsw : offZsw+subChunkSize]

	var uXY, uSW []byte
	if x < zy {
		uXY, uSW = prt(cXY, cSW)
	} else {
		uSW, uXY = prt(cSW, cXY)
	}

	copy(uBuf[nodeXY][offZ:offZ+subChunkSize], uXY)
	copy(uBuf[nodeSW][offZsw:offZsw+subChunkSize], uSW)
}

// coupledFromUncoupled applies PFT to recover C for a coupled pair that was
// both erased, from their now-known U values, writing both results into
// chunks.
func coupledFromUncoupled(p Params, chunks [][]byte, uBuf [][]byte, x, y, z, zy, zsw, subChunkSize int) {
	nodeXY := xyToNode(x, y, p.Q)
	nodeSW := xyToNode(zy, y, p.Q)
	offZ, offZsw := z*subChunkSize, zsw*subChunkSize

	uXY := uBuf[nodeXY][offZ : offZ+subChunkSize]
	uSW := uBuf[nodeSW][offZsw : offZsw+subChunkSize]

	var cXY, cSW []byte
	if x < zy {
		cXY, cSW = pft(uXY, uSW)
	} else {
		cSW, cXY = pft(uSW, uXY)
	}

	copy(chunks[nodeXY][offZ:offZ+subChunkSize], cXY)
	copy(chunks[nodeSW][offZsw:offZsw+subChunkSize], cSW)
}

// recoverFromCompanionC recovers C for an erased vertex whose companion is
// not erased, from the vertex's own U and the companion's C.
func recoverFromCompanionC(p Params, chunks [][]byte, uBuf [][]byte, x, y, z, zy, zsw, subChunkSize int) {
	nodeXY := xyToNode(x, y, p.Q)
	nodeSW := xyToNode(zy, y, p.Q)
	offZ, offZsw := z*subChunkSize, zsw*subChunkSize

	cSW := chunks[nodeSW][offZsw : offZsw+subChunkSize]
	uXY := uBuf[nodeXY][offZ : offZ+subChunkSize]

	copy(chunks[nodeXY][offZ:offZ+subChunkSize], cFromUAndCstar(uXY, cSW))
}

// planeDecodingOrder assigns each plane z its intersection score, so
// callers can process planes in ascending-IS order.
func planeDecodingOrder(p Params, erased map[int]bool) []int {
	order := make([]int, p.SubChunkNo)
	for z := 0; z < p.SubChunkNo; z++ {
		zVec := planeVector(z, p.T, p.Q)
		count := 0
		for node := range erased {
			x, y := nodeToXY(node, p.Q)
			if x == zVec[y] {
				count++
			}
		}
		order[z] = count
	}
	return order
}

// maxIntersectionScore is a cheap upper bound on the true maximum
// per-plane intersection score: the number of distinct y-sections touched
// by the erasure set. No plane's IS can exceed this, and computing it
// avoids an O(α·|erased|) pre-pass over every plane just to find the exact
// maximum.
func maxIntersectionScore(p Params, erased map[int]bool) int {
	touched := make([]bool, p.T)
	count := 0
	for node := range erased {
		_, y := nodeToXY(node, p.Q)
		if !touched[y] {
			touched[y] = true
			count++
		}
	}
	return count
}
