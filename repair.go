package clay

// HelperPlan describes one helper's contribution to repairing a lost node:
// the β sub-chunk indices it must supply, concatenated in this order.
type HelperPlan struct {
	Node      int
	SubChunks []int
}

// getRepairSubchunkIndices returns the β layers in which the lost internal
// node is red: for each seq in [0, q^y_l) and offset in [0, q^(t-1-y_l)),
// z = x_l·q^(t-1-y_l) + seq·q·q^(t-1-y_l) + offset.
func getRepairSubchunkIndices(p Params, lostInternal int) ([]int, error) {
	yLost := lostInternal / p.Q
	xLost := lostInternal % p.Q

	seqSCCount, ok := checkedPow(p.Q, p.T-1-yLost)
	if !ok {
		return nil, &ErrOverflow{Msg: "q^(t-1-y) overflows"}
	}
	numSeq, ok := checkedPow(p.Q, yLost)
	if !ok {
		return nil, &ErrOverflow{Msg: "q^y overflows"}
	}

	result := make([]int, 0, p.Beta)
	for seq := 0; seq < numSeq; seq++ {
		base := xLost*seqSCCount + seq*p.Q*seqSCCount
		for offset := 0; offset < seqSCCount; offset++ {
			result = append(result, base+offset)
		}
	}
	return result, nil
}

// MinimumToRepair plans the helper set and per-helper sub-chunk indices
// needed to repair lostNode, given the externally available node indices.
// The lost node's y-section siblings are mandatory; the remaining slots
// are filled from available up to d helpers.
func (c *Code) MinimumToRepair(lostNode int, available []int) ([]HelperPlan, error) {
	if lostNode < 0 || lostNode >= c.N {
		return nil, &ErrInvalidParameters{Msg: "invalid lost node index"}
	}

	lostInternal := externalToInternal(lostNode, c.K, c.Nu)
	indices, err := getRepairSubchunkIndices(c.Params, lostInternal)
	if err != nil {
		return nil, err
	}

	d := c.K + c.Q - 1
	var result []HelperPlan
	seen := make(map[int]bool)

	ySection := lostInternal / c.Q
	availSet := make(map[int]bool, len(available))
	for _, a := range available {
		availSet[a] = true
	}

	for x := 0; x < c.Q; x++ {
		node := ySection*c.Q + x
		if node == lostInternal {
			continue
		}
		external, ok := internalToExternal(node, c.K, c.Nu)
		if !ok {
			continue
		}
		if availSet[external] && !seen[external] {
			seen[external] = true
			result = append(result, HelperPlan{Node: external, SubChunks: append([]int(nil), indices...)})
		}
	}

	for _, node := range available {
		if len(result) >= d {
			break
		}
		if node == lostNode || seen[node] {
			continue
		}
		seen[node] = true
		result = append(result, HelperPlan{Node: node, SubChunks: append([]int(nil), indices...)})
	}

	if len(result) < d {
		return nil, &ErrInsufficientHelpers{Needed: d, Provided: len(result)}
	}
	return result[:d], nil
}

// Repair recovers the chunk for lostNode from partial helper data: each
// entry in helperData must be the β·S-byte concatenation of the sub-chunks
// named by MinimumToRepair, in that order.
func (c *Code) Repair(lostNode int, helperData map[int][]byte, chunkSize int) ([]byte, error) {
	p := c.Params
	d := p.K + p.Q - 1

	if lostNode < 0 || lostNode >= p.N {
		return nil, &ErrInvalidParameters{Msg: "invalid lost node index"}
	}
	if len(helperData) < d {
		return nil, &ErrInsufficientHelpers{Needed: d, Provided: len(helperData)}
	}
	if chunkSize == 0 || chunkSize%p.SubChunkNo != 0 {
		return nil, &ErrInvalidChunkSize{Expected: p.SubChunkNo, Actual: chunkSize}
	}

	lostInternal := externalToInternal(lostNode, p.K, p.Nu)
	repairIndices, err := getRepairSubchunkIndices(p, lostInternal)
	if err != nil {
		return nil, err
	}
	subChunkSize := chunkSize / p.SubChunkNo
	expectedHelperBytes := len(repairIndices) * subChunkSize
	total := p.totalNodes()

	lostY := lostInternal / p.Q
	for x := 0; x < p.Q; x++ {
		node := lostY*p.Q + x
		if node == lostInternal {
			continue
		}
		if node >= p.K && node < p.K+p.Nu {
			continue
		}
		external, _ := internalToExternal(node, p.K, p.Nu)
		if _, ok := helperData[external]; !ok {
			return nil, &ErrMissingYSectionHelper{LostNode: lostNode, MissingHelper: external}
		}
	}

	uBuf := make([][]byte, total)
	uComputed := make([][]bool, total)
	for i := 0; i < total; i++ {
		uBuf[i] = make([]byte, chunkSize)
		uComputed[i] = make([]bool, p.SubChunkNo)
	}
	recovered := make([]byte, chunkSize)

	helperInternal := make(map[int][]byte, len(helperData))
	for ext, data := range helperData {
		if ext < 0 || ext >= p.N {
			return nil, &ErrInvalidParameters{Msg: "helper index out of range"}
		}
		internal := externalToInternal(ext, p.K, p.Nu)
		if len(data) != expectedHelperBytes {
			return nil, &ErrInsufficientHelperData{Helper: ext, Expected: expectedHelperBytes, Actual: len(data)}
		}
		helperInternal[internal] = data
	}

	aloofNodes := make(map[int]bool)
	for i := 0; i < total; i++ {
		if i == lostInternal || helperInternal[i] != nil {
			continue
		}
		if i < p.K || i >= p.K+p.Nu {
			aloofNodes[i] = true
		}
	}

	zeroData := make([]byte, expectedHelperBytes)
	for i := p.K; i < p.K+p.Nu; i++ {
		helperInternal[i] = zeroData
	}

	repairPlaneToInd := make(map[int]int, len(repairIndices))
	for idx, z := range repairIndices {
		repairPlaneToInd[z] = idx
	}

	orderedPlanes := map[int][]int{}
	var orders []int
	for _, z := range repairIndices {
		zVec := planeVector(z, p.T, p.Q)
		order := 0
		if lostInternal%p.Q == zVec[lostInternal/p.Q] {
			order++
		}
		for node := range aloofNodes {
			if node%p.Q == zVec[node/p.Q] {
				order++
			}
		}
		if _, ok := orderedPlanes[order]; !ok {
			orders = append(orders, order)
		}
		orderedPlanes[order] = append(orderedPlanes[order], z)
	}
	sortInts(orders)

	baseErasures := make(map[int]bool)
	for x := 0; x < p.Q; x++ {
		baseErasures[lostY*p.Q+x] = true
	}
	for node := range aloofNodes {
		baseErasures[node] = true
	}

	codec := c.mds()

	for _, order := range orders {
		for _, z := range orderedPlanes[order] {
			zVec := planeVector(z, p.T, p.Q)

			layerErasures := make(map[int]bool, len(baseErasures))
			for node := range baseErasures {
				layerErasures[node] = true
			}

			for y := 0; y < p.T; y++ {
				for x := 0; x < p.Q; x++ {
					nodeXY := xyToNode(x, y, p.Q)
					if baseErasures[nodeXY] {
						continue
					}
					helperChunk, haveHelper := helperInternal[nodeXY]
					if !haveHelper {
						layerErasures[nodeXY] = true
						continue
					}

					zy := zVec[y]
					zsw := companionLayer(p.SubChunkNo, p.Q, p.T, z, x, y, zy)
					nodeSW := xyToNode(zy, y, p.Q)
					cOffset := repairPlaneToInd[z] * subChunkSize

					switch {
					case zy == x:
						copy(uBuf[nodeXY][z*subChunkSize:(z+1)*subChunkSize], helperChunk[cOffset:cOffset+subChunkSize])
						uComputed[nodeXY][z] = true

					case aloofNodes[nodeSW]:
						if uComputed[nodeSW][zsw] {
							cXY := helperChunk[cOffset : cOffset+subChunkSize]
							uSW := uBuf[nodeSW][zsw*subChunkSize : (zsw+1)*subChunkSize]
							copy(uBuf[nodeXY][z*subChunkSize:(z+1)*subChunkSize], uFromCAndUstar(cXY, uSW))
							uComputed[nodeXY][z] = true
						} else {
							layerErasures[nodeXY] = true
						}

					default:
						helperSW, haveSW := helperInternal[nodeSW]
						swIdx, haveSWIdx := repairPlaneToInd[zsw]
						if haveSW && haveSWIdx {
							cXY := helperChunk[cOffset : cOffset+subChunkSize]
							cSW := helperSW[swIdx*subChunkSize : (swIdx+1)*subChunkSize]
							uXY, uSWVal := prtOriented(cXY, cSW, x < zy)
							copy(uBuf[nodeXY][z*subChunkSize:(z+1)*subChunkSize], uXY)
							copy(uBuf[nodeSW][zsw*subChunkSize:(zsw+1)*subChunkSize], uSWVal)
							uComputed[nodeXY][z] = true
							uComputed[nodeSW][zsw] = true
						} else {
							layerErasures[nodeXY] = true
						}
					}
				}
			}

			if err := decodeUncoupledLayer(p, codec, layerErasures, z, subChunkSize, uBuf); err != nil {
				return nil, err
			}
			for node := range layerErasures {
				uComputed[node][z] = true
			}

			for node := range baseErasures {
				if aloofNodes[node] {
					continue
				}
				x, y := nodeToXY(node, p.Q)
				zy := zVec[y]
				nodeSW := xyToNode(zy, y, p.Q)
				zsw := companionLayer(p.SubChunkNo, p.Q, p.T, z, x, y, zy)

				switch {
				case x == zy:
					if node == lostInternal {
						copy(recovered[z*subChunkSize:(z+1)*subChunkSize], uBuf[node][z*subChunkSize:(z+1)*subChunkSize])
					}
				case nodeSW == lostInternal:
					if helperChunk, ok := helperInternal[node]; ok {
						cOffset := repairPlaneToInd[z] * subChunkSize
						cNode := helperChunk[cOffset : cOffset+subChunkSize]
						uNode := uBuf[node][z*subChunkSize : (z+1)*subChunkSize]
						cLost := cstarFromCAndU(cNode, uNode)
						copy(recovered[zsw*subChunkSize:(zsw+1)*subChunkSize], cLost)
					}
				}
			}
		}
	}

	return recovered, nil
}

// sortInts sorts a small slice of ints in place (insertion sort is fine:
// the slice length is bounded by β's distinct repair-IS buckets, at most t+1).
func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
