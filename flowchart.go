package flowchart

// Graph is the canonical flowchart: every node and edge on the canvas.
// Its JSON shape is also the export artifact.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Position is a canvas coordinate. Y grows downward.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a labeled box on the canvas.
// Position is owned by the rendering layer; Label changes only through a commit.
type Node struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Label    string   `json:"label"`
}

// Edge is a directed, labeled connection between two existing nodes.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
	Marker string `json:"marker,omitempty"`
}

// MarkerArrow is the arrow head drawn at the target end of every new edge.
const MarkerArrow = "arrowclosed"

// Clone returns a deep copy of the graph so callers can hold a snapshot
// without aliasing the store's slices.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	return out
}
