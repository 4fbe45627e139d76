package auth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingStableMapping(t *testing.T) {
	nodes := []string{"node-1", "node-2", "node-3"}
	ring := NewConsistentHashRing(nodes, 50)
	require.Equal(t, 3, ring.NodeCount())

	// 同一个 key 必须始终落在同一个节点
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("token-%d", i)
		first := ring.GetNode(key)
		assert.Contains(t, nodes, first)
		assert.Equal(t, first, ring.GetNode(key))
	}
}

func TestRingDistribution(t *testing.T) {
	ring := NewConsistentHashRing([]string{"a", "b", "c"}, 100)

	hits := make(map[string]int)
	for i := 0; i < 3000; i++ {
		hits[ring.GetNode(fmt.Sprintf("key-%d", i))]++
	}
	// 粗略检查：每个节点都分到了流量
	require.Len(t, hits, 3)
	for node, n := range hits {
		assert.Greater(t, n, 0, "node %s got no keys", node)
	}
}

func TestRingDefaults(t *testing.T) {
	ring := NewConsistentHashRing(nil, 0)
	assert.Equal(t, 1, ring.NodeCount())
	assert.Equal(t, "auth-node-default", ring.GetNode("anything"))

	// 重复添加同一节点不生效
	ring.Add("auth-node-default")
	assert.Equal(t, 1, ring.NodeCount())
}
