package memory

import (
	"context"
	"testing"

	"github.com/meikuraledutech/flowchart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *MemStore {
	t.Helper()
	s := New()
	require.NoError(t, s.Reset(context.Background(), flowchart.SeedGraph()))
	return s
}

func TestNodes(t *testing.T) {
	ctx := context.Background()
	s := New()

	nodes, err := s.ListNodes(ctx)
	require.NoError(t, err)
	assert.NotNil(t, nodes)
	assert.Empty(t, nodes)

	require.NoError(t, s.AddNode(ctx, &flowchart.Node{ID: "a", Label: "A"}))
	err = s.AddNode(ctx, &flowchart.Node{ID: "a"})
	assert.ErrorIs(t, err, flowchart.ErrDuplicateID)
	assert.Error(t, s.AddNode(ctx, &flowchart.Node{}))

	n, err := s.GetNode(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", n.Label)

	n.Label = "changed"
	fresh, err := s.GetNode(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", fresh.Label, "GetNode returns a copy")

	require.NoError(t, s.UpdateNode(ctx, n))
	fresh, err = s.GetNode(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "changed", fresh.Label)

	_, err = s.GetNode(ctx, "b")
	assert.ErrorIs(t, err, flowchart.ErrNodeNotFound)
	assert.ErrorIs(t, s.UpdateNode(ctx, &flowchart.Node{ID: "b"}), flowchart.ErrNodeNotFound)
}

func TestEdges(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	err := s.AddEdge(ctx, &flowchart.Edge{ID: "x", Source: "1", Target: "9"})
	assert.ErrorIs(t, err, flowchart.ErrNodeNotFound)
	err = s.AddEdge(ctx, &flowchart.Edge{ID: "e1-2", Source: "1", Target: "2"})
	assert.ErrorIs(t, err, flowchart.ErrDuplicateID)

	// Parallel edges are fine.
	require.NoError(t, s.AddEdge(ctx, &flowchart.Edge{ID: "p", Source: "1", Target: "2"}))

	edges, err := s.ListEdges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "e1-2", edges[0].ID)
	assert.Equal(t, "p", edges[1].ID)

	e, err := s.GetEdge(ctx, "p")
	require.NoError(t, err)
	e.Source, e.Target = e.Target, e.Source
	require.NoError(t, s.UpdateEdge(ctx, e))

	e, err = s.GetEdge(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "2", e.Source)

	e.Target = "ghost"
	assert.ErrorIs(t, s.UpdateEdge(ctx, e), flowchart.ErrNodeNotFound)
	assert.ErrorIs(t, s.UpdateEdge(ctx, &flowchart.Edge{ID: "none"}), flowchart.ErrEdgeNotFound)
	_, err = s.GetEdge(ctx, "none")
	assert.ErrorIs(t, err, flowchart.ErrEdgeNotFound)
}

func TestGraph_Snapshot(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	g, err := s.Graph(ctx)
	require.NoError(t, err)
	g.Nodes[0].Label = "mutated"
	g.Edges[0].Label = "mutated"

	again, err := s.Graph(ctx)
	require.NoError(t, err)
	assert.Equal(t, flowchart.SeedGraph(), again)
}

func TestReset_RejectsInvalidGraph(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	bad := []*flowchart.Graph{
		{Nodes: []flowchart.Node{{ID: "a"}, {ID: "a"}}},
		{Nodes: []flowchart.Node{{ID: ""}}},
		{Nodes: []flowchart.Node{{ID: "a"}}, Edges: []flowchart.Edge{{ID: "e", Source: "a", Target: "b"}}},
		{Nodes: []flowchart.Node{{ID: "a"}}, Edges: []flowchart.Edge{{ID: "e", Source: "a", Target: "a"}, {ID: "e", Source: "a", Target: "a"}}},
	}
	for _, g := range bad {
		assert.Error(t, s.Reset(ctx, g))
	}

	g, err := s.Graph(ctx)
	require.NoError(t, err)
	assert.Equal(t, flowchart.SeedGraph(), g)
}
