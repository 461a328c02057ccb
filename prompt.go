package flowchart

import (
	"context"
	"encoding/json"
	"fmt"
)

// Instruction is the fixed text that precedes the serialized flowchart in
// every generation prompt.
const Instruction = "Write a continuous essay in flowing prose that expresses the logical structure " +
	"described by the JSON document below. Each entry under \"nodes\" is an idea, identified by its " +
	"id and described by its label. Each entry under \"edges\" leads from the idea named by source " +
	"to the idea named by target, and its label describes how the two relate. Work out the order " +
	"and connections of the ideas yourself. Do not mention nodes, edges, flowcharts, diagrams, " +
	"graphs or JSON; write only about the ideas themselves."

// GenerationRequest is the projection of the flowchart sent to the text
// generation service.
type GenerationRequest struct {
	Instruction string `json:"instruction"`
	Document    string `json:"document"`
	Prompt      string `json:"prompt"`
}

type promptDocument struct {
	Nodes []promptNode `json:"nodes"`
	Edges []promptEdge `json:"edges"`
}

type promptNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type promptEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// NewGenerationRequest serializes g as-is, in collection order, and wraps it
// in Instruction. The output depends only on g.
func NewGenerationRequest(g *Graph) (GenerationRequest, error) {
	doc := promptDocument{
		Nodes: make([]promptNode, 0, len(g.Nodes)),
		Edges: make([]promptEdge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		doc.Nodes = append(doc.Nodes, promptNode{ID: n.ID, Label: n.Label})
	}
	for _, e := range g.Edges {
		doc.Edges = append(doc.Edges, promptEdge{ID: e.ID, Source: e.Source, Target: e.Target, Label: e.Label})
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return GenerationRequest{}, fmt.Errorf("flowchart: encode prompt document: %w", err)
	}

	return GenerationRequest{
		Instruction: Instruction,
		Document:    string(raw),
		Prompt:      Instruction + "\n\n" + string(raw),
	}, nil
}

// BuildGenerationRequest projects the current flowchart into a generation request.
func (c *Controller) BuildGenerationRequest(ctx context.Context) (GenerationRequest, error) {
	g, err := c.store.Graph(ctx)
	if err != nil {
		return GenerationRequest{}, err
	}
	return NewGenerationRequest(g)
}

// Export returns the export artifact: the flowchart as an indented JSON
// document with "nodes" and "edges", in the in-memory shape.
func (c *Controller) Export(ctx context.Context) ([]byte, error) {
	g, err := c.store.Graph(ctx)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("flowchart: encode export: %w", err)
	}
	return out, nil
}
