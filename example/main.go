package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"

	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/essay"
	"github.com/meikuraledutech/flowchart/internal/logging"
	"github.com/meikuraledutech/flowchart/memory"
)

func main() {
	ctx := context.Background()
	logger := logging.New(slog.LevelInfo)

	// The essay client reads OPENAI_API_KEY at call time.
	ctrl := flowchart.NewController(memory.New(),
		flowchart.WithLogger(logger),
		flowchart.WithGenerator(essay.New(essay.Config{}, essay.WithLogger(logger))),
	)

	// ── Start from the seeded canvas ──────────────────────────────────
	if err := ctrl.Seed(ctx); err != nil {
		log.Fatalf("seed: %v", err)
	}

	// ── Label the seeded nodes through their input fields ─────────────
	for id, text := range map[string]string{"1": "Gather ingredients", "2": "Bake the bread"} {
		f, err := ctrl.NodeLabelField(ctx, id)
		if err != nil {
			log.Fatalf("field: %v", err)
		}
		if err := f.Input(ctx, text); err != nil {
			log.Fatalf("input: %v", err)
		}
		if err := f.KeyDown(ctx, flowchart.KeyEnter); err != nil {
			log.Fatalf("commit: %v", err)
		}
	}

	// ── Add a node above the others and connect it from below ─────────
	n, err := ctrl.AddNode(ctx)
	if err != nil {
		log.Fatalf("add node: %v", err)
	}
	if _, err := ctrl.MoveNode(ctx, n.ID, flowchart.Position{X: 250, Y: -150}); err != nil {
		log.Fatalf("move node: %v", err)
	}
	if _, err := ctrl.CommitNodeLabel(ctx, n.ID, "Write a shopping list"); err != nil {
		log.Fatalf("label: %v", err)
	}
	e, err := ctrl.Connect(ctx, "1", n.ID)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	if _, err := ctrl.CommitEdgeLabel(ctx, e.ID, "so that you can"); err != nil {
		log.Fatalf("label: %v", err)
	}
	fmt.Printf("edge %s flows %s -> %s\n", e.ID, e.Source, e.Target)

	// ── Export ────────────────────────────────────────────────────────
	out, err := ctrl.Export(ctx)
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	fmt.Println(string(out))

	// ── Generate ──────────────────────────────────────────────────────
	req, err := ctrl.BuildGenerationRequest(ctx)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	printJSON(req)

	g, err := ctrl.RequestGeneration(ctx)
	var ge *flowchart.GenerationError
	if errors.As(err, &ge) {
		fmt.Printf("\ngeneration failed: %s\n", ge.Message)
		return
	}
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	fmt.Printf("\n%s\n", g.Text)
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
