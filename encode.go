package clay

// minSubChunkSize is the smallest sub-chunk size the MDS codec tolerates;
// the payload is padded up to a multiple of k*α*minSubChunkSize, so each
// chunk is a multiple of α*minSubChunkSize.
const minSubChunkSize = 2

// Encode splits data into n chunks (k data, m parity), each holding α
// sub-chunks. Encoding is framed as decoding with the parity nodes
// presented as erasures (shortened nodes are held as known zeros, not
// erased): the same layered machinery that
// reconstructs missing data also regenerates parity from it.
func (c *Code) Encode(data []byte) ([][]byte, error) {
	minSize := c.K * c.SubChunkNo * minSubChunkSize

	var paddedLen int
	if len(data) == 0 {
		paddedLen = minSize
	} else {
		aligned := ((len(data) + minSize - 1) / minSize) * minSize
		if aligned < minSize {
			aligned = minSize
		}
		paddedLen = aligned
	}
	chunkSize := paddedLen / c.K
	subChunkSize := chunkSize / c.SubChunkNo

	padded := make([]byte, paddedLen)
	copy(padded, data)

	total := c.totalNodes()
	chunks := make([][]byte, total)
	for i := 0; i < total; i++ {
		chunks[i] = make([]byte, chunkSize)
	}
	for i := 0; i < c.K; i++ {
		copy(chunks[i], padded[i*chunkSize:(i+1)*chunkSize])
	}

	parityStart := c.K + c.Nu
	toCompute := make(map[int]bool, c.M)
	for i := parityStart; i < total; i++ {
		toCompute[i] = true
	}

	if err := decodeLayered(c.Params, c.mds(), toCompute, chunks, subChunkSize); err != nil {
		return nil, err
	}

	result := make([][]byte, 0, c.N)
	for i := 0; i < c.K; i++ {
		result = append(result, chunks[i])
	}
	for i := parityStart; i < total; i++ {
		result = append(result, chunks[i])
	}
	return result, nil
}
