package flowchart

import (
	"context"
	"errors"
)

var (
	ErrNodeNotFound = errors.New("flowchart: node not found")
	ErrEdgeNotFound = errors.New("flowchart: edge not found")
	ErrDuplicateID  = errors.New("flowchart: duplicate id")
)

// Store defines the contract for holding the canonical flowchart.
// Implementations must be safe for concurrent use.
type Store interface {
	// Graph
	Graph(ctx context.Context) (*Graph, error)
	Reset(ctx context.Context, g *Graph) error

	// Nodes
	AddNode(ctx context.Context, node *Node) error
	GetNode(ctx context.Context, nodeID string) (*Node, error)
	UpdateNode(ctx context.Context, node *Node) error
	ListNodes(ctx context.Context) ([]Node, error)

	// Edges
	AddEdge(ctx context.Context, edge *Edge) error
	GetEdge(ctx context.Context, edgeID string) (*Edge, error)
	UpdateEdge(ctx context.Context, edge *Edge) error
	ListEdges(ctx context.Context) ([]Edge, error)
}
