package clay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRepairSubchunkIndicesCount(t *testing.T) {
	p, err := newParams(4, 2, 5)
	require.NoError(t, err)

	for lostNode := 0; lostNode < p.N; lostNode++ {
		internal := externalToInternal(lostNode, p.K, p.Nu)
		indices, err := getRepairSubchunkIndices(p, internal)
		require.NoError(t, err)
		assert.Equal(t, p.Beta, len(indices))
	}
}

func TestMinimumToRepairHelperCount(t *testing.T) {
	c, err := New(4, 2, 5)
	require.NoError(t, err)

	available := []int{1, 2, 3, 4, 5}
	plan, err := c.MinimumToRepair(0, available)
	require.NoError(t, err)
	assert.Equal(t, c.D, len(plan))
	for _, hp := range plan {
		assert.Equal(t, c.Beta, len(hp.SubChunks))
	}
}

func TestMinimumToRepairIncludesYSectionSibling(t *testing.T) {
	c, err := New(4, 2, 5)
	require.NoError(t, err)

	available := []int{1, 2, 3, 4, 5}
	plan, err := c.MinimumToRepair(0, available)
	require.NoError(t, err)

	var nodes []int
	for _, hp := range plan {
		nodes = append(nodes, hp.Node)
	}
	assert.Contains(t, nodes, 1)
}

func TestMinimumToRepairInsufficientHelpers(t *testing.T) {
	c, err := New(4, 2, 5)
	require.NoError(t, err)

	available := []int{1, 2, 3} // d = 5 needed, only 3 given
	_, err = c.MinimumToRepair(0, available)
	require.Error(t, err)
	assert.IsType(t, &ErrInsufficientHelpers{}, err)
}

func TestRepairCorrectnessAllNodes(t *testing.T) {
	c, err := New(4, 2, 5)
	require.NoError(t, err)

	data := []byte("Test data for repair correctness verification!!!!")
	chunks, err := c.Encode(data)
	require.NoError(t, err)
	chunkSize := len(chunks[0])
	subChunkSize := chunkSize / c.SubChunkNo

	for lostNode := 0; lostNode < c.N; lostNode++ {
		var available []int
		for i := 0; i < c.N; i++ {
			if i != lostNode {
				available = append(available, i)
			}
		}

		plan, err := c.MinimumToRepair(lostNode, available)
		require.NoError(t, err)

		partial := make(map[int][]byte, len(plan))
		for _, hp := range plan {
			buf := make([]byte, 0, len(hp.SubChunks)*subChunkSize)
			for _, sc := range hp.SubChunks {
				start := sc * subChunkSize
				buf = append(buf, chunks[hp.Node][start:start+subChunkSize]...)
			}
			partial[hp.Node] = buf
		}

		recovered, err := c.Repair(lostNode, partial, chunkSize)
		require.NoError(t, err, "repair failed for node %d", lostNode)
		assert.Equal(t, chunks[lostNode], recovered, "repair mismatch for node %d", lostNode)
	}
}

// TestRepairWithAloofNodes uses d < k+m-1 (m=3, so d=k+m-1=11 is not the
// only legal value) so that some nodes are present in the topology but
// neither lost nor selected as helpers, exercising repair.go's aloof-node
// branch (a node whose companion is needed but which is itself unused as a
// helper).
func TestRepairWithAloofNodes(t *testing.T) {
	c, err := New(9, 3, 10)
	require.NoError(t, err)
	require.Less(t, c.D, c.K+c.M-1)

	data := make([]byte, c.K*c.SubChunkNo)
	for i := range data {
		data[i] = byte((i*11 + 3) % 256)
	}
	chunks, err := c.Encode(data)
	require.NoError(t, err)
	chunkSize := len(chunks[0])
	subChunkSize := chunkSize / c.SubChunkNo

	for lostNode := 0; lostNode < c.N; lostNode++ {
		var available []int
		for i := 0; i < c.N; i++ {
			if i != lostNode {
				available = append(available, i)
			}
		}
		require.Greater(t, len(available), c.D, "fixture must leave at least one aloof node")

		plan, err := c.MinimumToRepair(lostNode, available)
		require.NoError(t, err)
		require.Less(t, len(plan), len(available), "at least one available node must go unused (aloof)")

		partial := make(map[int][]byte, len(plan))
		for _, hp := range plan {
			buf := make([]byte, 0, len(hp.SubChunks)*subChunkSize)
			for _, sc := range hp.SubChunks {
				start := sc * subChunkSize
				buf = append(buf, chunks[hp.Node][start:start+subChunkSize]...)
			}
			partial[hp.Node] = buf
		}

		recovered, err := c.Repair(lostNode, partial, chunkSize)
		require.NoError(t, err, "repair failed for node %d", lostNode)
		assert.Equal(t, chunks[lostNode], recovered, "repair mismatch for node %d", lostNode)
	}
}

func TestRepairBandwidthAdvantage(t *testing.T) {
	c, err := New(4, 2, 5)
	require.NoError(t, err)

	data := []byte("Test data for bandwidth verification of Clay codes repair!")
	chunks, err := c.Encode(data)
	require.NoError(t, err)
	chunkSize := len(chunks[0])
	subChunkSize := chunkSize / c.SubChunkNo

	available := []int{1, 2, 3, 4, 5}
	plan, err := c.MinimumToRepair(0, available)
	require.NoError(t, err)

	total := 0
	for _, hp := range plan {
		total += len(hp.SubChunks)
	}
	totalBytes := total * subChunkSize
	fullDecodeBytes := c.K * chunkSize

	assert.Less(t, totalBytes, fullDecodeBytes*7/10)
}
