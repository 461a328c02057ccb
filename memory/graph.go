package memory

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/flowchart"
)

// Graph returns a snapshot of the whole flowchart.
func (s *MemStore) Graph(ctx context.Context) (*flowchart.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g := &flowchart.Graph{Nodes: s.nodes, Edges: s.edges}
	return g.Clone(), nil
}

// Reset replaces the whole flowchart (replace semantics).
// The incoming graph is validated before anything is swapped in, so a
// rejected graph leaves the current one untouched.
func (s *MemStore) Reset(ctx context.Context, g *flowchart.Graph) error {
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("flowchart: reset: node with empty id")
		}
		if seen[n.ID] {
			return fmt.Errorf("flowchart: reset: node %s: %w", n.ID, flowchart.ErrDuplicateID)
		}
		seen[n.ID] = true
	}

	edgeSeen := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if e.ID == "" {
			return fmt.Errorf("flowchart: reset: edge with empty id")
		}
		if edgeSeen[e.ID] {
			return fmt.Errorf("flowchart: reset: edge %s: %w", e.ID, flowchart.ErrDuplicateID)
		}
		edgeSeen[e.ID] = true
		if !seen[e.Source] {
			return fmt.Errorf("flowchart: reset: edge %s source %q: %w", e.ID, e.Source, flowchart.ErrNodeNotFound)
		}
		if !seen[e.Target] {
			return fmt.Errorf("flowchart: reset: edge %s target %q: %w", e.ID, e.Target, flowchart.ErrNodeNotFound)
		}
	}

	c := g.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = c.Nodes
	s.edges = c.Edges
	return nil
}
