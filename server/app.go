package main

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type labelBody struct {
	Label string `json:"label"`
}

type draftBody struct {
	Text string `json:"text"`
}

type keyBody struct {
	Key string `json:"key"`
}

type connectBody struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// newApp wires the HTTP routes onto ctrl.
func newApp(ctrl *flowchart.Controller, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *slog.Logger) *fiber.App {
	app := fiber.New()

	fail := func(c fiber.Ctx, err error) error {
		var ge *flowchart.GenerationError
		switch {
		case errors.Is(err, flowchart.ErrNodeNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		case errors.Is(err, flowchart.ErrEdgeNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "edge not found"})
		case errors.As(err, &ge):
			return c.Status(502).JSON(fiber.Map{"error": ge.Message, "upstream_status": ge.Status})
		}
		logger.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	fieldState := func(c fiber.Ctx, f *flowchart.Field) error {
		return c.JSON(fiber.Map{"draft": f.Value(), "focused": f.Focused()})
	}

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// ── Graph ─────────────────────────────────────────────────────────
	app.Get("/graph", func(c fiber.Ctx) error {
		g, err := ctrl.Graph(c.Context())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(g)
	})

	app.Get("/export", func(c fiber.Ctx) error {
		out, err := ctrl.Export(c.Context())
		if err != nil {
			return fail(c, err)
		}
		c.Attachment("flowchart.json")
		return c.Send(out)
	})

	// ── Nodes ─────────────────────────────────────────────────────────
	app.Post("/nodes", func(c fiber.Ctx) error {
		n, err := ctrl.AddNode(c.Context())
		if err != nil {
			return fail(c, err)
		}
		return c.Status(201).JSON(n)
	})

	app.Put("/nodes/:id/position", func(c fiber.Ctx) error {
		var pos flowchart.Position
		if err := c.Bind().JSON(&pos); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		n, err := ctrl.MoveNode(c.Context(), c.Params("id"), pos)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(n)
	})

	app.Put("/nodes/:id/label", func(c fiber.Ctx) error {
		var body labelBody
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		n, err := ctrl.CommitNodeLabel(c.Context(), c.Params("id"), body.Label)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(n)
	})

	app.Put("/nodes/:id/draft", func(c fiber.Ctx) error {
		var body draftBody
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		f, err := ctrl.NodeLabelField(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if err := f.Input(c.Context(), body.Text); err != nil {
			return fail(c, err)
		}
		return fieldState(c, f)
	})

	app.Post("/nodes/:id/blur", func(c fiber.Ctx) error {
		f, err := ctrl.NodeLabelField(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if err := f.Blur(c.Context()); err != nil {
			return fail(c, err)
		}
		return fieldState(c, f)
	})

	app.Post("/nodes/:id/keys", func(c fiber.Ctx) error {
		var body keyBody
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		f, err := ctrl.NodeLabelField(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if err := f.KeyDown(c.Context(), body.Key); err != nil {
			return fail(c, err)
		}
		return fieldState(c, f)
	})

	// ── Edges ─────────────────────────────────────────────────────────
	app.Post("/edges", func(c fiber.Ctx) error {
		var body connectBody
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		e, err := ctrl.Connect(c.Context(), body.Source, body.Target)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(201).JSON(e)
	})

	app.Post("/edges/:id/reverse", func(c fiber.Ctx) error {
		e, err := ctrl.ReverseEdge(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(e)
	})

	app.Put("/edges/:id/label", func(c fiber.Ctx) error {
		var body labelBody
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		e, err := ctrl.CommitEdgeLabel(c.Context(), c.Params("id"), body.Label)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(e)
	})

	app.Put("/edges/:id/draft", func(c fiber.Ctx) error {
		var body draftBody
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		f, err := ctrl.EdgeLabelField(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if err := f.Input(c.Context(), body.Text); err != nil {
			return fail(c, err)
		}
		return fieldState(c, f)
	})

	app.Post("/edges/:id/blur", func(c fiber.Ctx) error {
		f, err := ctrl.EdgeLabelField(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if err := f.Blur(c.Context()); err != nil {
			return fail(c, err)
		}
		return fieldState(c, f)
	})

	app.Post("/edges/:id/keys", func(c fiber.Ctx) error {
		var body keyBody
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		f, err := ctrl.EdgeLabelField(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if err := f.KeyDown(c.Context(), body.Key); err != nil {
			return fail(c, err)
		}
		return fieldState(c, f)
	})

	// ── Generation ────────────────────────────────────────────────────
	app.Get("/generation/request", func(c fiber.Ctx) error {
		req, err := ctrl.BuildGenerationRequest(c.Context())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(req)
	})

	app.Post("/generation", func(c fiber.Ctx) error {
		start := time.Now()
		g, err := ctrl.RequestGeneration(c.Context())
		if err != nil {
			m.Generation(metrics.OutcomeFailure, time.Since(start))
			return fail(c, err)
		}
		outcome := metrics.OutcomeSuccess
		if g.Stale {
			outcome = metrics.OutcomeStale
		}
		m.Generation(outcome, time.Since(start))
		return c.JSON(g)
	})

	app.Get("/generation", func(c fiber.Ctx) error {
		g, ok := ctrl.Result()
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "no generation yet"})
		}
		return c.JSON(g)
	})

	return app
}
