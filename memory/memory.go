package memory

import (
	"sync"

	"github.com/meikuraledutech/flowchart"
)

// MemStore implements flowchart.Store in process memory.
// Nodes and edges keep insertion order, which is also the export order.
type MemStore struct {
	mu    sync.RWMutex
	nodes []flowchart.Node
	edges []flowchart.Edge
}

// New creates an empty MemStore.
func New() *MemStore {
	return &MemStore{
		nodes: []flowchart.Node{},
		edges: []flowchart.Edge{},
	}
}

var _ flowchart.Store = (*MemStore)(nil)

// nodeIndex returns the slice index of nodeID or -1. Caller holds mu.
func (s *MemStore) nodeIndex(nodeID string) int {
	for i := range s.nodes {
		if s.nodes[i].ID == nodeID {
			return i
		}
	}
	return -1
}

// edgeIndex returns the slice index of edgeID or -1. Caller holds mu.
func (s *MemStore) edgeIndex(edgeID string) int {
	for i := range s.edges {
		if s.edges[i].ID == edgeID {
			return i
		}
	}
	return -1
}
