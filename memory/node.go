package memory

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/flowchart"
)

// AddNode appends a node. The ID must be set and unused.
func (s *MemStore) AddNode(ctx context.Context, node *flowchart.Node) error {
	if node.ID == "" {
		return fmt.Errorf("flowchart: insert node: empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nodeIndex(node.ID) >= 0 {
		return fmt.Errorf("flowchart: insert node %s: %w", node.ID, flowchart.ErrDuplicateID)
	}
	s.nodes = append(s.nodes, *node)
	return nil
}

// GetNode fetches a copy of a single node by its ID.
// Returns ErrNodeNotFound if the node doesn't exist.
func (s *MemStore) GetNode(ctx context.Context, nodeID string) (*flowchart.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.nodeIndex(nodeID)
	if i < 0 {
		return nil, fmt.Errorf("flowchart: get node %s: %w", nodeID, flowchart.ErrNodeNotFound)
	}
	n := s.nodes[i]
	return &n, nil
}

// UpdateNode replaces the position and label of an existing node.
// Returns ErrNodeNotFound if the node doesn't exist.
func (s *MemStore) UpdateNode(ctx context.Context, node *flowchart.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.nodeIndex(node.ID)
	if i < 0 {
		return fmt.Errorf("flowchart: update node %s: %w", node.ID, flowchart.ErrNodeNotFound)
	}
	s.nodes[i] = *node
	return nil
}

// ListNodes returns all nodes in insertion order.
// Returns an empty slice (not nil) if none exist.
func (s *MemStore) ListNodes(ctx context.Context) ([]flowchart.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]flowchart.Node, len(s.nodes))
	copy(nodes, s.nodes)
	return nodes, nil
}
