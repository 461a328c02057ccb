package memory

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/flowchart"
)

// AddEdge appends an edge.
// Both endpoints must reference existing nodes. Parallel edges between the
// same pair are accepted.
func (s *MemStore) AddEdge(ctx context.Context, edge *flowchart.Edge) error {
	if edge.ID == "" {
		return fmt.Errorf("flowchart: insert edge: empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edgeIndex(edge.ID) >= 0 {
		return fmt.Errorf("flowchart: insert edge %s: %w", edge.ID, flowchart.ErrDuplicateID)
	}
	if err := s.checkEndpoints(edge); err != nil {
		return fmt.Errorf("flowchart: insert edge %s: %w", edge.ID, err)
	}
	s.edges = append(s.edges, *edge)
	return nil
}

// GetEdge fetches a copy of a single edge by its ID.
// Returns ErrEdgeNotFound if the edge doesn't exist.
func (s *MemStore) GetEdge(ctx context.Context, edgeID string) (*flowchart.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.edgeIndex(edgeID)
	if i < 0 {
		return nil, fmt.Errorf("flowchart: get edge %s: %w", edgeID, flowchart.ErrEdgeNotFound)
	}
	e := s.edges[i]
	return &e, nil
}

// UpdateEdge replaces source, target, label and marker of an existing edge.
// Returns ErrEdgeNotFound if the edge doesn't exist.
func (s *MemStore) UpdateEdge(ctx context.Context, edge *flowchart.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.edgeIndex(edge.ID)
	if i < 0 {
		return fmt.Errorf("flowchart: update edge %s: %w", edge.ID, flowchart.ErrEdgeNotFound)
	}
	if err := s.checkEndpoints(edge); err != nil {
		return fmt.Errorf("flowchart: update edge %s: %w", edge.ID, err)
	}
	s.edges[i] = *edge
	return nil
}

// ListEdges returns all edges in insertion order.
// Returns an empty slice (not nil) if none exist.
func (s *MemStore) ListEdges(ctx context.Context) ([]flowchart.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := make([]flowchart.Edge, len(s.edges))
	copy(edges, s.edges)
	return edges, nil
}

// checkEndpoints verifies source and target exist. Caller holds mu.
func (s *MemStore) checkEndpoints(edge *flowchart.Edge) error {
	if s.nodeIndex(edge.Source) < 0 {
		return fmt.Errorf("source %q: %w", edge.Source, flowchart.ErrNodeNotFound)
	}
	if s.nodeIndex(edge.Target) < 0 {
		return fmt.Errorf("target %q: %w", edge.Target, flowchart.ErrNodeNotFound)
	}
	return nil
}
