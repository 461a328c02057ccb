package flowchart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meikuraledutech/flowchart/internal/logging"
)

// Controller is the single owner of the canonical flowchart. Every structural
// mutation and every label commit goes through it; rendered items get
// callbacks (fields, ids) rather than direct access to the store.
type Controller struct {
	store     Store
	gen       Generator
	logger    *slog.Logger
	recorder  MutationRecorder
	newEdgeID func() string
	now       func() time.Time

	// mu serializes read-modify-write mutations and guards nextID and fields.
	mu     sync.Mutex
	nextID int
	fields map[string]*Field

	genMu  sync.Mutex
	issued int64
	result *Generation
}

// Mutation operation names reported to a MutationRecorder.
const (
	OpSeed            = "seed"
	OpAddNode         = "add_node"
	OpMoveNode        = "move_node"
	OpCommitNodeLabel = "commit_node_label"
	OpCommitEdgeLabel = "commit_edge_label"
	OpConnect         = "connect"
	OpReverseEdge     = "reverse_edge"
)

// MutationRecorder counts successful mutations of the canonical flowchart.
type MutationRecorder interface {
	Mutation(op string)
}

type nopRecorder struct{}

func (nopRecorder) Mutation(string) {}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithGenerator sets the text-generation backend used by RequestGeneration.
func WithGenerator(g Generator) Option {
	return func(c *Controller) { c.gen = g }
}

// WithMetrics reports every successful mutation to r, whichever path
// (direct commit, field blur, Enter) triggered it.
func WithMetrics(r MutationRecorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithEdgeIDs overrides edge id generation (uuid by default).
func WithEdgeIDs(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newEdgeID = fn
		}
	}
}

// NewController creates a controller over store.
func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		logger:    logging.NewNop(),
		recorder:  nopRecorder{},
		newEdgeID: uuid.NewString,
		now:       time.Now,
		fields:    make(map[string]*Field),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SeedGraph returns the graph a fresh canvas starts with.
func SeedGraph() *Graph {
	return &Graph{
		Nodes: []Node{
			{ID: "1", Position: Position{X: 250, Y: 50}},
			{ID: "2", Position: Position{X: 250, Y: 250}},
		},
		Edges: []Edge{
			{ID: "e1-2", Source: "1", Target: "2", Label: "My Edge", Marker: MarkerArrow},
		},
	}
}

// Seed replaces the store content with SeedGraph. Node ids continue after
// the seeded ones.
func (c *Controller) Seed(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seed := SeedGraph()
	if err := c.store.Reset(ctx, seed); err != nil {
		return err
	}
	if c.nextID < len(seed.Nodes) {
		c.nextID = len(seed.Nodes)
	}
	c.fields = make(map[string]*Field)
	c.recorder.Mutation(OpSeed)
	c.logger.Info("canvas seeded", "nodes", len(seed.Nodes), "edges", len(seed.Edges))
	return nil
}

// defaultPosition places the n-th added node so consecutive nodes do not overlap.
func defaultPosition(n int) Position {
	return Position{X: float64(100 + 20*n), Y: float64(100 * n)}
}

// AddNode appends a node with a fresh id, a default position and an empty label.
// Ids come from a monotonic counter and are never reused.
func (c *Controller) AddNode(ctx context.Context) (Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		c.nextID++
		n := Node{
			ID:       strconv.Itoa(c.nextID),
			Position: defaultPosition(c.nextID),
		}
		err := c.store.AddNode(ctx, &n)
		if errors.Is(err, ErrDuplicateID) {
			// Id taken by a graph loaded from elsewhere; skip it.
			continue
		}
		if err != nil {
			return Node{}, err
		}
		c.recorder.Mutation(OpAddNode)
		c.logger.Debug("node added", "node_id", n.ID)
		return n, nil
	}
}

// MoveNode records a position reported by the rendering layer.
func (c *Controller) MoveNode(ctx context.Context, nodeID string, pos Position) (Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.store.GetNode(ctx, nodeID)
	if err != nil {
		return Node{}, c.invalidRef("move node", err, "node_id", nodeID)
	}
	n.Position = pos
	if err := c.store.UpdateNode(ctx, n); err != nil {
		return Node{}, c.invalidRef("move node", err, "node_id", nodeID)
	}
	c.recorder.Mutation(OpMoveNode)
	return *n, nil
}

// CommitNodeLabel replaces the node's label with text.
func (c *Controller) CommitNodeLabel(ctx context.Context, nodeID, text string) (Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.store.GetNode(ctx, nodeID)
	if err != nil {
		return Node{}, c.invalidRef("commit node label", err, "node_id", nodeID)
	}
	n.Label = text
	if err := c.store.UpdateNode(ctx, n); err != nil {
		return Node{}, c.invalidRef("commit node label", err, "node_id", nodeID)
	}
	c.recorder.Mutation(OpCommitNodeLabel)
	c.logger.Debug("node label committed", "node_id", nodeID)
	return *n, nil
}

// CommitEdgeLabel replaces the edge's label with text.
func (c *Controller) CommitEdgeLabel(ctx context.Context, edgeID, text string) (Edge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.store.GetEdge(ctx, edgeID)
	if err != nil {
		return Edge{}, c.invalidRef("commit edge label", err, "edge_id", edgeID)
	}
	e.Label = text
	if err := c.store.UpdateEdge(ctx, e); err != nil {
		return Edge{}, c.invalidRef("commit edge label", err, "edge_id", edgeID)
	}
	c.recorder.Mutation(OpCommitEdgeLabel)
	c.logger.Debug("edge label committed", "edge_id", edgeID)
	return *e, nil
}

// Normalize orders two endpoints so the upper one (smaller Y) is the source.
// Equal heights keep the given order.
func Normalize(source, target Node) (string, string) {
	if target.Position.Y < source.Position.Y {
		return target.ID, source.ID
	}
	return source.ID, target.ID
}

// Connect creates an edge between two existing nodes. The direction is
// normalized to flow downward regardless of which handle was dragged.
// Self-loops and parallel edges are accepted.
func (c *Controller) Connect(ctx context.Context, sourceID, targetID string) (Edge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, err := c.store.GetNode(ctx, sourceID)
	if err != nil {
		return Edge{}, c.invalidRef("connect", err, "source", sourceID)
	}
	dst, err := c.store.GetNode(ctx, targetID)
	if err != nil {
		return Edge{}, c.invalidRef("connect", err, "target", targetID)
	}

	from, to := Normalize(*src, *dst)
	e := Edge{
		ID:     c.newEdgeID(),
		Source: from,
		Target: to,
		Marker: MarkerArrow,
	}
	if err := c.store.AddEdge(ctx, &e); err != nil {
		return Edge{}, c.invalidRef("connect", err, "source", sourceID, "target", targetID)
	}

	c.recorder.Mutation(OpConnect)
	if from == to {
		c.logger.Warn("self-loop edge created", "edge_id", e.ID, "node_id", from)
	}
	c.logger.Debug("edge connected", "edge_id", e.ID, "source", from, "target", to)
	return e, nil
}

// ReverseEdge swaps the edge's source and target. Id and label are kept.
func (c *Controller) ReverseEdge(ctx context.Context, edgeID string) (Edge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.store.GetEdge(ctx, edgeID)
	if err != nil {
		return Edge{}, c.invalidRef("reverse edge", err, "edge_id", edgeID)
	}
	e.Source, e.Target = e.Target, e.Source
	if err := c.store.UpdateEdge(ctx, e); err != nil {
		return Edge{}, c.invalidRef("reverse edge", err, "edge_id", edgeID)
	}
	c.recorder.Mutation(OpReverseEdge)
	c.logger.Debug("edge reversed", "edge_id", edgeID, "source", e.Source, "target", e.Target)
	return *e, nil
}

// Graph returns a snapshot of the canonical flowchart.
func (c *Controller) Graph(ctx context.Context) (*Graph, error) {
	return c.store.Graph(ctx)
}

// invalidRef logs a failed lookup at error level and passes err through.
// A reference to a missing entity means the UI and the store disagree.
func (c *Controller) invalidRef(op string, err error, args ...any) error {
	if errors.Is(err, ErrNodeNotFound) || errors.Is(err, ErrEdgeNotFound) {
		c.logger.Error("invalid reference", append([]any{"op", op, "error", err}, args...)...)
	}
	return fmt.Errorf("%s: %w", op, err)
}
